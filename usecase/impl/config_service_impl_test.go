package impl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ca-srg/opday/infrastructure/config"
	"github.com/ca-srg/opday/infrastructure/logging"
	"github.com/ca-srg/opday/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigService(t *testing.T) (*ConfigServiceImpl, string) {
	t.Helper()
	// テスト用の一時ディレクトリに設定ファイルを置く
	path := filepath.Join(t.TempDir(), "config.json")
	svc, err := NewConfigService(repository.NewJSONConfigRepositoryWithPath(path), &logging.NoOpLogger{})
	require.NoError(t, err)
	return svc.(*ConfigServiceImpl), path
}

func TestConfigServiceImpl_GetConfig_Defaults(t *testing.T) {
	svc, path := newTestConfigService(t)

	cfg, sources := svc.GetConfigWithSources()
	require.NotNil(t, cfg)
	assert.Equal(t, config.SourceTypeHTTP, cfg.Offset.Source)
	assert.Equal(t, "00:00:00", cfg.Offset.Default)
	assert.Equal(t, config.SourceDefault, sources["Offset.Source"])
	assert.Equal(t, path, svc.GetConfigPath())
}

func TestConfigServiceImpl_JSONAndEnvLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	fileCfg := config.DefaultConfig()
	fileCfg.Offset.Source = config.SourceTypeStatic
	fileCfg.Static.Offset = "04:00:00"
	fileCfg.Offset.CacheTTLSec = 120
	repo := repository.NewJSONConfigRepositoryWithPath(path)
	require.NoError(t, repo.Save(fileCfg))

	t.Setenv("OPDAY_OFFSET_CACHE_TTL_SECONDS", "30")

	svc, err := NewConfigService(repo, &logging.NoOpLogger{})
	require.NoError(t, err)

	cfg, sources := svc.GetConfigWithSources()
	assert.Equal(t, config.SourceTypeStatic, cfg.Offset.Source)
	assert.Equal(t, "04:00:00", cfg.Static.Offset)
	assert.Equal(t, 30, cfg.Offset.CacheTTLSec)
	assert.Equal(t, config.SourceJSONFile, sources["Offset.Source"])
	assert.Equal(t, config.SourceEnvironment, sources["Offset.CacheTTLSec"])
}

func TestConfigServiceImpl_InvalidConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("OPDAY_OFFSET_SOURCE", "carrier-pigeon")

	svc, _ := newTestConfigService(t)
	assert.Equal(t, config.SourceTypeHTTP, svc.GetConfig().Offset.Source)
}

func TestConfigServiceImpl_MalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	svc, err := NewConfigService(repository.NewJSONConfigRepositoryWithPath(path), &logging.NoOpLogger{})
	require.NoError(t, err)
	assert.Equal(t, 300, svc.GetConfig().Offset.CacheTTLSec)
}

func TestConfigServiceImpl_ReloadConfig(t *testing.T) {
	svc, path := newTestConfigService(t)
	assert.Equal(t, config.SourceTypeHTTP, svc.GetConfig().Offset.Source)

	updated := config.DefaultConfig()
	updated.Offset.Source = config.SourceTypeSQLite
	require.NoError(t, repository.NewJSONConfigRepositoryWithPath(path).Save(updated))

	require.NoError(t, svc.ReloadConfig())
	assert.Equal(t, config.SourceTypeSQLite, svc.GetConfig().Offset.Source)
}

func TestConfigServiceImpl_ExportConfig_MasksSecrets(t *testing.T) {
	t.Setenv("OPDAY_LD_SDK_KEY", "sdk-123")
	t.Setenv("OPDAY_HTTP_BEARER_TOKEN", "token")
	t.Setenv("OPDAY_HTTP_CLIENT_SECRET", "client-secret")
	t.Setenv("OPDAY_PROMETHEUS_REMOTE_WRITE_URL", "https://prom.example.com/api/v1/write")
	t.Setenv("OPDAY_PROMETHEUS_REMOTE_WRITE_USERNAME", "writer")
	t.Setenv("OPDAY_PROMETHEUS_REMOTE_WRITE_PASSWORD", "hunter2")

	svc, _ := newTestConfigService(t)
	exported := svc.ExportConfig()

	ld := exported["launchdarkly"].(map[string]interface{})
	assert.Equal(t, "****", ld["sdk_key"])

	httpSection := exported["http"].(map[string]interface{})
	assert.Equal(t, "****", httpSection["bearer_token"])
	assert.Equal(t, "****", httpSection["client_secret"])

	prom := exported["prometheus"].(map[string]interface{})
	assert.Equal(t, "writer", prom["remote_write_username"])
	assert.Equal(t, "****", prom["remote_write_password"])

	loggingSection := exported["logging"].(map[string]interface{})
	promtail := loggingSection["promtail"].(map[string]interface{})
	assert.Equal(t, "", promtail["password"])

	sources := exported["_sources"].(map[string]string)
	assert.Equal(t, "env", sources["LaunchDarkly.SDKKey"])
}

func TestConfigServiceImpl_EnsureConfigExists(t *testing.T) {
	svc, path := newTestConfigService(t)

	created, err := svc.EnsureConfigExists()
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, path)

	// 既に存在する場合は何もしない
	created, err = svc.EnsureConfigExists()
	require.NoError(t, err)
	assert.False(t, created)
}
