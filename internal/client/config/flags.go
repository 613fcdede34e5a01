package config

import (
	"flag"
	"os"

	"github.com/dpetrov/authkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   server base URL (e.g., "http://127.0.0.1:8080")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.StringVar(&config.ServerBaseURL, "a", config.ServerBaseURL, "server base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
