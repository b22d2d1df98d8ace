package config

import (
	"github.com/dmitrijs2005/veil/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// parseEnv overlays cfg with the environment, loading the -env dotenv file
// first when given. Panics on an unreadable file or a malformed value.
func parseEnv(cfg *Config) {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		panic(err)
	}
}
