package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/loadout/internal/flagx"
	"github.com/dmitrijs2005/loadout/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// strings such as "15m" or integer nanoseconds. It is only a DTO: values are
// copied onto Config, and keys absent from the file keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	MetricsAddr                  string         `json:"metrics_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	LogLevel                     string         `json:"log_level"`
	JWTAlgorithm                 string         `json:"jwt_algorithm"`
	JWTPrivateKeyFile            string         `json:"jwt_private_key_file"`
	JWTPublicKeyFile             string         `json:"jwt_public_key_file"`
	SecretKey                    string         `json:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	BotCheckURL                  string         `json:"bot_check_url"`
	BotCheckSecret               string         `json:"bot_check_secret"`
	BotCheckTimeout              timex.Duration `json:"bot_check_timeout"`
}

// parseJson loads the file named by -c / -config, if any, into config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.JWTAlgorithm, c.JWTAlgorithm)
	setString(&config.JWTPrivateKeyFile, c.JWTPrivateKeyFile)
	setString(&config.JWTPublicKeyFile, c.JWTPublicKeyFile)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.BotCheckURL, c.BotCheckURL)
	setString(&config.BotCheckSecret, c.BotCheckSecret)

	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.BotCheckTimeout.Duration != 0 {
		config.BotCheckTimeout = c.BotCheckTimeout.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
