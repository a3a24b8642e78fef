package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaultConfig()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":9090", c.MetricsAddr)
	assert.Equal(t, "RS256", c.JWTAlgorithm)
	assert.Equal(t, DefaultSecretKey, c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.SessionTokenValidityDuration)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, 5*time.Second, c.BotCheckTimeout)
	assert.True(t, c.UsesFallbackSecret())
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")
	assert.Empty(t, cmp.Diff(defaultConfig(), c))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "zero access ttl", mutate: func(c *Config) { c.AccessTokenValidityDuration = 0 }},
		{name: "negative refresh ttl", mutate: func(c *Config) { c.RefreshTokenValidityDuration = -time.Second }},
		{name: "zero session ttl", mutate: func(c *Config) { c.SessionTokenValidityDuration = 0 }},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.BcryptCost = 3 }},
		{name: "bcrypt cost too high", mutate: func(c *Config) { c.BcryptCost = 32 }},
		{name: "no key and no secret", mutate: func(c *Config) { c.SecretKey = "" }},
		{name: "key pair without secret", mutate: func(c *Config) {
			c.SecretKey = ""
			c.JWTPrivateKeyFile = "priv.pem"
			c.JWTPublicKeyFile = "pub.pem"
		}, ok: true},
		{name: "no bot check url", mutate: func(c *Config) { c.BotCheckURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig()
			tt.mutate(c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd",
		"-a", "127.0.0.1:9090", "-m", ":9999", "-d", "db", "-s", "secret", "-l", "debug",
		"-jwt-alg", "ES256", "-jwt-private", "priv.pem", "-jwt-public", "pub.pem",
		"-session-ttl", "2h", "-t", "10m", "-r", "72h", "-bcrypt-cost", "10",
		"-bot-url", "http://bot", "-bot-secret", "shh", "-bot-timeout", "2s",
		"-c", "ignored.json",
	}

	config := &Config{}
	require.NotPanics(t, func() { parseFlags(config) })

	expected := &Config{
		EndpointAddrGRPC:             "127.0.0.1:9090",
		MetricsAddr:                  ":9999",
		DatabaseDSN:                  "db",
		SecretKey:                    "secret",
		LogLevel:                     "debug",
		JWTAlgorithm:                 "ES256",
		JWTPrivateKeyFile:            "priv.pem",
		JWTPublicKeyFile:             "pub.pem",
		SessionTokenValidityDuration: 2 * time.Hour,
		AccessTokenValidityDuration:  10 * time.Minute,
		RefreshTokenValidityDuration: 72 * time.Hour,
		BcryptCost:                   10,
		BotCheckURL:                  "http://bot",
		BotCheckSecret:               "shh",
		BotCheckTimeout:              2 * time.Second,
	}
	assert.Empty(t, cmp.Diff(expected, config))
}

func TestParseFlags_BadValuePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-t", "fifteen"}

	require.Panics(t, func() { parseFlags(&Config{}) })
}
