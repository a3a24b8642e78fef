package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/loadout/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags declared here are taken from os.Args.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.BotToken, "b", cfg.BotToken, "bot-check challenge token")

	if err := flagx.ParseKnown(fs, os.Args[1:]); err != nil {
		panic(err)
	}
}
