// Package server wires configuration, storage, token signing, the bot-check
// gate and the transports into a runnable auth server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/loadout/internal/logging"
	"github.com/dmitrijs2005/loadout/internal/server/auth"
	"github.com/dmitrijs2005/loadout/internal/server/botcheck"
	"github.com/dmitrijs2005/loadout/internal/server/config"
	"github.com/dmitrijs2005/loadout/internal/server/observability"
	"github.com/dmitrijs2005/loadout/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/loadout/internal/server/services"

	gs "github.com/dmitrijs2005/loadout/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	grpcServer *gs.GRPCServer
	obsServer  *observability.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	issuer, err := newTokenIssuer(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	if c.BotCheckSecret == "" {
		logger.Warn(ctx, "bot check secret is not configured; every signup and login will be rejected by the provider")
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	bot := botcheck.NewHTTPVerifier(c.BotCheckURL, c.BotCheckSecret, c.BotCheckTimeout, nil)
	svc := services.NewAuthService(db, rm, auth.NewBcryptHasher(c.BcryptCost), issuer, bot, logger)

	obs := observability.NewServer(c.MetricsAddr, logger)
	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, obs.Metrics())

	return &App{config: c, logger: logger, db: db, grpcServer: grpcServer, obsServer: obs}, nil
}

// newTokenIssuer reads the configured key pair, or hands the issuer the
// fallback secret when no pair is configured.
func newTokenIssuer(ctx context.Context, c *config.Config, logger logging.Logger) (*auth.TokenIssuer, error) {
	keys := auth.KeyConfig{Algorithm: c.JWTAlgorithm}

	if c.UsesFallbackSecret() {
		keys.Secret = []byte(c.SecretKey)
		if c.SecretKey == config.DefaultSecretKey {
			logger.Warn(ctx, "jwt fallback secret is the built-in default")
		}
	} else {
		var err error
		if keys.PrivateKeyPEM, err = os.ReadFile(c.JWTPrivateKeyFile); err != nil {
			return nil, fmt.Errorf("read jwt private key: %w", err)
		}
		if keys.PublicKeyPEM, err = os.ReadFile(c.JWTPublicKeyFile); err != nil {
			return nil, fmt.Errorf("read jwt public key: %w", err)
		}
	}

	return auth.NewTokenIssuer(ctx, keys, auth.Lifetimes{
		Session: c.SessionTokenValidityDuration,
		Access:  c.AccessTokenValidityDuration,
		Refresh: c.RefreshTokenValidityDuration,
	}, logger)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startObservabilityServer(ctx context.Context, cancelFunc context.CancelFunc) {
	errCh, err := app.obsServer.Start(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			cancelFunc()
		}
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.obsServer.Stop(stopCtx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startObservabilityServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
