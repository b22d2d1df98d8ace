// Package config loads runtime configuration for the Veil terminal client.
//
// Sources, later ones winning: built-in defaults, an optional JSON file
// (-c/-config), VEIL_* environment variables (optionally from a dotenv file
// named by -env) and command-line flags.
package config

import "time"

// Config holds runtime settings for the Veil client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - LocalDBPath: SQLite file holding the persisted session tokens.
//   - SessionTimeout: how long session establishment may wait for the backend.
//   - SettleAfter / CompleteAfter: settlement delays measured from creation.
//   - SignDelay: simulated passkey signing pause before send and withdraw.
//   - GenAIAPIKey / GenAIModel: generative-text credentials; an empty key
//     disables privacy explanations.
type Config struct {
	ServerEndpointAddr string        `envconfig:"VEIL_SERVER_ADDR"`
	LocalDBPath        string        `envconfig:"VEIL_LOCAL_DB"`
	SessionTimeout     time.Duration `envconfig:"VEIL_SESSION_TIMEOUT"`
	SettleAfter        time.Duration `envconfig:"VEIL_SETTLE_AFTER"`
	CompleteAfter      time.Duration `envconfig:"VEIL_COMPLETE_AFTER"`
	SignDelay          time.Duration `envconfig:"VEIL_SIGN_DELAY"`
	GenAIAPIKey        string        `envconfig:"API_KEY"`
	GenAIModel         string        `envconfig:"VEIL_GENAI_MODEL"`
}

// LoadDefaults populates c with the stock settings.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.LocalDBPath = "veil.db"
	c.SessionTimeout = 5 * time.Second
	c.SettleAfter = 5 * time.Second
	c.CompleteAfter = 10 * time.Second
	c.SignDelay = 600 * time.Millisecond
	c.GenAIAPIKey = ""
	c.GenAIModel = "gemini-3-flash-preview"
}

// LoadConfig constructs a Config, applies defaults, then overlays the JSON
// file, the environment and the flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
