package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_OverridesAndTracksSources(t *testing.T) {
	t.Setenv("OPDAY_OFFSET_SOURCE", "ssm")
	t.Setenv("OPDAY_OFFSET_CACHE_TTL_SECONDS", "30")
	t.Setenv("OPDAY_SSM_PARAMETER_NAME", "/prod/cutover")
	t.Setenv("OPDAY_LOG_DEBUG", "true")
	t.Setenv("OPDAY_LOKI_URL", "http://loki:3100")

	config := DefaultConfig()
	config.MarkDefaults()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, SourceTypeSSM, config.Offset.Source)
	assert.Equal(t, 30, config.Offset.CacheTTLSec)
	assert.Equal(t, "/prod/cutover", config.SSM.ParameterName)
	assert.True(t, config.Logging.Debug)
	assert.Equal(t, "http://loki:3100", config.Logging.Promtail.URL)

	assert.Equal(t, SourceEnvironment, config.ConfigSources["Offset.Source"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Offset.CacheTTLSec"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Promtail.URL"])
	assert.Equal(t, SourceDefault, config.ConfigSources["Offset.FetchTimeoutSec"])
}

func TestLoadFromEnv_KeepsJSONValuesWhenUnset(t *testing.T) {
	config := DefaultConfig()
	config.MarkDefaults()
	config.MergeJSONConfig(&AppConfig{
		HTTP: &HTTPSourceConfig{URL: "https://config.example.com/cutover"},
	})

	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "https://config.example.com/cutover", config.HTTP.URL)
	assert.Equal(t, SourceJSONFile, config.ConfigSources["HTTP.URL"])
}

func TestLoadFromEnv_InvalidNumber(t *testing.T) {
	t.Setenv("OPDAY_OFFSET_FETCH_TIMEOUT_SECONDS", "ten")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Offset")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("OPDAY_OFFSET_SOURCE", "static")
	t.Setenv("OPDAY_STATIC_OFFSET", "04:30:00")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "04:30:00", config.Static.Offset)

	t.Setenv("OPDAY_STATIC_OFFSET", "4:30")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
