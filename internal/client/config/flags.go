package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/veil/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the backend server
//	-l string   path of the local SQLite database
//	-t int      session establishment timeout (seconds)
//	-m string   generative-text model
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-t", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "address and port of the server")
	fs.StringVar(&config.LocalDBPath, "l", config.LocalDBPath, "local database path")
	sessionTimeout := fs.Int("t", int(config.SessionTimeout.Seconds()), "session timeout (in seconds)")
	fs.StringVar(&config.GenAIModel, "m", config.GenAIModel, "generative-text model")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTimeout = time.Duration(*sessionTimeout) * time.Second
}
