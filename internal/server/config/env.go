package config

import (
	"github.com/dmitrijs2005/veil/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// parseEnv overlays config with VEIL_* environment variables. When -env
// names a dotenv file it is loaded first; variables already present in the
// process environment win over the file. Unset variables leave fields as they
// are. It panics on an unreadable dotenv file or a malformed value.
func parseEnv(config *Config) {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	if err := envconfig.Process("", config); err != nil {
		panic(err)
	}
}
