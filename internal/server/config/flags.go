package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/loadout/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string            gRPC bind address (e.g., ":50051")
//	-m string            metrics bind address
//	-d string            PostgreSQL DSN
//	-s string            HS256 fallback secret
//	-l string            log level
//	-jwt-alg string      asymmetric signing algorithm (RS256, ES256, EdDSA, ...)
//	-jwt-private string  PEM private key file
//	-jwt-public string   PEM public key file
//	-session-ttl dur     signup/login token validity
//	-t dur               access token validity
//	-r dur               refresh token validity
//	-bcrypt-cost int     password hashing cost
//	-bot-url string      bot-check verification endpoint
//	-bot-secret string   bot-check provider secret
//	-bot-timeout dur     bot-check request timeout
//
// Only flags declared here are taken from os.Args, so the JSON -c flag and
// other components' flags pass through untouched.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "fallback secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.JWTAlgorithm, "jwt-alg", config.JWTAlgorithm, "jwt signing algorithm")
	fs.StringVar(&config.JWTPrivateKeyFile, "jwt-private", config.JWTPrivateKeyFile, "jwt private key (PEM)")
	fs.StringVar(&config.JWTPublicKeyFile, "jwt-public", config.JWTPublicKeyFile, "jwt public key (PEM)")
	fs.DurationVar(&config.SessionTokenValidityDuration, "session-ttl", config.SessionTokenValidityDuration, "session token validity")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&config.RefreshTokenValidityDuration, "r", config.RefreshTokenValidityDuration, "refresh token validity")
	fs.IntVar(&config.BcryptCost, "bcrypt-cost", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.BotCheckURL, "bot-url", config.BotCheckURL, "bot check verification url")
	fs.StringVar(&config.BotCheckSecret, "bot-secret", config.BotCheckSecret, "bot check secret")
	fs.DurationVar(&config.BotCheckTimeout, "bot-timeout", config.BotCheckTimeout, "bot check timeout")

	if err := flagx.ParseKnown(fs, os.Args[1:]); err != nil {
		panic(err)
	}
}
