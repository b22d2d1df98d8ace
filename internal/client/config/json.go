package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/veil/internal/flagx"
	"github.com/dmitrijs2005/veil/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// may be strings like "5s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	LocalDBPath        string         `json:"local_db_path"`
	SessionTimeout     timex.Duration `json:"session_timeout"`
	SettleAfter        timex.Duration `json:"settle_after"`
	CompleteAfter      timex.Duration `json:"complete_after"`
	SignDelay          timex.Duration `json:"sign_delay"`
	GenAIAPIKey        string         `json:"genai_api_key"`
	GenAIModel         string         `json:"genai_model"`
}

// parseJson overlays cfg with the file named by -c/-config, if any. Absent
// keys keep their current values. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		ServerEndpointAddr: cfg.ServerEndpointAddr,
		LocalDBPath:        cfg.LocalDBPath,
		SessionTimeout:     timex.Duration{Duration: cfg.SessionTimeout},
		SettleAfter:        timex.Duration{Duration: cfg.SettleAfter},
		CompleteAfter:      timex.Duration{Duration: cfg.CompleteAfter},
		SignDelay:          timex.Duration{Duration: cfg.SignDelay},
		GenAIAPIKey:        cfg.GenAIAPIKey,
		GenAIModel:         cfg.GenAIModel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.LocalDBPath = jc.LocalDBPath
	cfg.SessionTimeout = jc.SessionTimeout.Duration
	cfg.SettleAfter = jc.SettleAfter.Duration
	cfg.CompleteAfter = jc.CompleteAfter.Duration
	cfg.SignDelay = jc.SignDelay.Duration
	cfg.GenAIAPIKey = jc.GenAIAPIKey
	cfg.GenAIModel = jc.GenAIModel
}
