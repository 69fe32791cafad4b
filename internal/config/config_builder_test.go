package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestGetConfig_DefaultsApply(t *testing.T) {
	cfg, err := GetConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultServer, cfg.Server.Address)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, DefaultJournalPath, cfg.Journal.Path)
	assert.Equal(t, DefaultPollInterval, cfg.Workers.PollInterval)
}

func TestGetConfig_EnvBeatsDefaults(t *testing.T) {
	t.Setenv("DTS_SERVER", "https://dts.example.org")
	t.Setenv("DTS_POLL_INTERVAL", "3s")

	cfg, err := GetConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "https://dts.example.org", cfg.Server.Address)
	assert.Equal(t, 3*time.Second, cfg.Workers.PollInterval)
	// untouched groups still fall back
	assert.Equal(t, DefaultJournalPath, cfg.Journal.Path)
}

func TestGetConfig_OverridesBeatEnv(t *testing.T) {
	t.Setenv("DTS_SERVER", "https://env.example.org")

	cfg, err := GetConfig(&StructuredConfig{
		Server: Server{Address: "https://flag.example.org"},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.org", cfg.Server.Address)
}

func TestGetConfig_JSONFileMerged(t *testing.T) {
	var jsonCfg StructuredJSONConfig
	jsonCfg.Server.Address = "https://json.example.org"
	jsonCfg.Server.Orcid = "0000-0002-1825-0097"
	jsonCfg.Workers.PollInterval = Duration(7 * time.Second)
	path := writeTempJSONConfig(t, jsonCfg)
	t.Setenv("CONFIG", path)

	cfg, err := GetConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "https://json.example.org", cfg.Server.Address)
	assert.Equal(t, "0000-0002-1825-0097", cfg.Server.Orcid)
	assert.Equal(t, 7*time.Second, cfg.Workers.PollInterval)
}

func TestGetConfig_EnvBeatsJSON(t *testing.T) {
	var jsonCfg StructuredJSONConfig
	jsonCfg.Server.Address = "https://json.example.org"
	path := writeTempJSONConfig(t, jsonCfg)
	t.Setenv("CONFIG", path)
	t.Setenv("DTS_SERVER", "https://env.example.org")

	cfg, err := GetConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "https://env.example.org", cfg.Server.Address)
}

func TestGetConfig_MissingJSONFile(t *testing.T) {
	t.Setenv("CONFIG", "/no/such/file.json")

	_, err := GetConfig(nil)

	require.Error(t, err)
}
