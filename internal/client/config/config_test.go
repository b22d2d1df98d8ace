package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, "veil.db", c.LocalDBPath)
	assert.Equal(t, 5*time.Second, c.SessionTimeout)
	assert.Equal(t, 5*time.Second, c.SettleAfter)
	assert.Equal(t, 10*time.Second, c.CompleteAfter)
	assert.Equal(t, 600*time.Millisecond, c.SignDelay)
	assert.Equal(t, "gemini-3-flash-preview", c.GenAIModel)
	assert.Empty(t, c.GenAIAPIKey)
}

func TestLoadConfig_Layering(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_endpoint_addr": "json:1",
		"local_db_path":        "json.db",
	})
	t.Setenv("VEIL_SERVER_ADDR", "env:2")
	t.Setenv("API_KEY", "k-env")
	os.Args = []string{"testbin", "-c", path, "-t", "9"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "env:2", cfg.ServerEndpointAddr)
	assert.Equal(t, "json.db", cfg.LocalDBPath)
	assert.Equal(t, "k-env", cfg.GenAIAPIKey)
	assert.Equal(t, 9*time.Second, cfg.SessionTimeout)
	assert.Equal(t, 10*time.Second, cfg.CompleteAfter)
}
