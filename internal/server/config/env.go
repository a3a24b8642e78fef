package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name declared in Config tags.
const EnvPrefix = "AUTH_"

// parseEnv overlays variables such as AUTH_DATABASE_DSN or AUTH_ACCESS_TOKEN_TTL=15m.
// Unset variables leave the current value untouched. A malformed value panics,
// like a malformed JSON file does.
func parseEnv(config *Config) {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
