package impl

import (
	"context"
	"fmt"
	"sync"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/repository"
	"github.com/ca-srg/opday/infrastructure/config"
	usecase "github.com/ca-srg/opday/usecase/interface"
)

const maskedValue = "****"

// ConfigServiceImpl は ConfigService の実装
type ConfigServiceImpl struct {
	configRepo repository.ConfigRepository
	config     *config.AppConfig
	logger     domain.Logger
	mu         sync.RWMutex
}

// NewConfigService は新しい ConfigService を作成する
func NewConfigService(configRepo repository.ConfigRepository, logger domain.Logger) (usecase.ConfigService, error) {
	cfg, err := loadConfigWithFallback(configRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ConfigServiceImpl{
		configRepo: configRepo,
		config:     cfg,
		logger:     logger,
	}, nil
}

// loadConfigWithFallback は defaults → JSON → 環境変数 の順に設定を重ねる。
// 最終的な設定が検証に失敗した場合はデフォルト設定で継続する
func loadConfigWithFallback(configRepo repository.ConfigRepository, logger domain.Logger) (*config.AppConfig, error) {
	ctx := context.Background()
	configPath := configRepo.GetConfigPath()

	cfg := config.DefaultConfig()
	cfg.MarkDefaults()
	logger.Debug(ctx, "Loading configuration", domain.NewField("config_path", configPath))

	jsonConfig, err := configRepo.Load()
	if err != nil {
		// JSON読み込みエラーは無視してデフォルト設定で継続
		logger.Warn(ctx, "Failed to load JSON configuration, using defaults",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
	} else if jsonConfig != nil {
		cfg.MergeJSONConfig(jsonConfig)
		logger.Debug(ctx, "Loaded JSON configuration", domain.NewField("config_path", configPath))
	}

	// 環境変数は JSON の値を上書きする
	if err := cfg.LoadFromEnv(); err != nil {
		logger.Warn(ctx, "Failed to load environment variables, using fallback values",
			domain.NewField("error", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn(ctx, "Configuration validation failed, using default values",
			domain.NewField("error", err.Error()))
		cfg = config.DefaultConfig()
		cfg.MarkDefaults()
	}

	return cfg, nil
}

// GetConfig は現在の設定を取得する
func (s *ConfigServiceImpl) GetConfig() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

// GetConfigWithSources は設定とそのソース情報を取得する
func (s *ConfigServiceImpl) GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config, s.config.ConfigSources
}

// ReloadConfig は設定を再読み込みする
func (s *ConfigServiceImpl) ReloadConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info(ctx, "Reloading configuration")

	newConfig, err := loadConfigWithFallback(s.configRepo, s.logger)
	if err != nil {
		s.logger.Error(ctx, "Failed to reload configuration", domain.NewField("error", err.Error()))
		return fmt.Errorf("failed to reload config: %w", err)
	}

	s.config = newConfig
	return nil
}

// GetConfigPath は設定ファイルのパスを返す
func (s *ConfigServiceImpl) GetConfigPath() string {
	return s.configRepo.GetConfigPath()
}

// ExportConfig は現在の設定をエクスポート用に整形する（パスワードなどをマスク）
func (s *ConfigServiceImpl) ExportConfig() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.config
	exportMap := make(map[string]interface{})
	exportMap["version"] = c.Version

	if c.Offset != nil {
		exportMap["offset"] = map[string]interface{}{
			"source":                c.Offset.Source,
			"cache_ttl_seconds":     c.Offset.CacheTTLSec,
			"fetch_timeout_seconds": c.Offset.FetchTimeoutSec,
			"default":               c.Offset.Default,
			"week_alignment":        c.Offset.WeekAlignment,
		}
	}

	if c.HTTP != nil {
		exportMap["http"] = map[string]interface{}{
			"url":           c.HTTP.URL,
			"bearer_token":  mask(c.HTTP.BearerToken),
			"json_field":    c.HTTP.JSONField,
			"token_url":     c.HTTP.TokenURL,
			"client_id":     c.HTTP.ClientID,
			"client_secret": mask(c.HTTP.ClientSecret),
			"scopes":        c.HTTP.Scopes,
		}
	}

	if c.LaunchDarkly != nil {
		exportMap["launchdarkly"] = map[string]interface{}{
			"sdk_key":                 mask(c.LaunchDarkly.SDKKey),
			"flag_key":                c.LaunchDarkly.FlagKey,
			"context_kind":            c.LaunchDarkly.ContextKind,
			"context_key":             c.LaunchDarkly.ContextKey,
			"connect_timeout_seconds": c.LaunchDarkly.ConnectTimeoutSec,
		}
	}

	if c.SSM != nil {
		exportMap["ssm"] = map[string]interface{}{
			"parameter_name": c.SSM.ParameterName,
			"region":         c.SSM.Region,
			"aws_profile":    c.SSM.AWSProfile,
		}
	}

	if c.SQLite != nil {
		exportMap["sqlite"] = map[string]interface{}{
			"path": c.SQLite.Path,
			"key":  c.SQLite.Key,
		}
	}

	if c.Static != nil {
		exportMap["static"] = map[string]interface{}{
			"offset": c.Static.Offset,
		}
	}

	if c.Prometheus != nil {
		exportMap["prometheus"] = map[string]interface{}{
			"remote_write_url":      c.Prometheus.RemoteWriteURL,
			"remote_write_username": c.Prometheus.RemoteWriteUsername,
			"remote_write_password": mask(c.Prometheus.RemoteWritePassword),
			"host_label":            c.Prometheus.HostLabel,
			"interval_seconds":      c.Prometheus.IntervalSec,
			"timeout_seconds":       c.Prometheus.TimeoutSec,
		}
	}

	if c.Logging != nil {
		loggingMap := map[string]interface{}{
			"level": c.Logging.Level,
			"debug": c.Logging.Debug,
		}
		if p := c.Logging.Promtail; p != nil {
			loggingMap["promtail"] = map[string]interface{}{
				"url":                p.URL,
				"username":           p.Username,
				"password":           mask(p.Password),
				"batch_wait_seconds": p.BatchWaitSeconds,
			}
		}
		exportMap["logging"] = loggingMap
	}

	// ソース情報を追加
	sourcesMap := make(map[string]string)
	for key, source := range c.ConfigSources {
		sourcesMap[key] = string(source)
	}
	exportMap["_sources"] = sourcesMap

	return exportMap
}

// EnsureConfigExists は設定ファイルが存在することを確認し、存在しない場合はテンプレートを作成する。
// テンプレートを作成した場合は true を返す
func (s *ConfigServiceImpl) EnsureConfigExists() (bool, error) {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()

	exists, err := s.configRepo.Exists()
	if err != nil {
		return false, fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		s.logger.Debug(ctx, "Configuration file already exists", domain.NewField("config_path", configPath))
		return false, nil
	}

	template := config.DefaultConfig()
	if err := s.configRepo.Save(template); err != nil {
		s.logger.Error(ctx, "Failed to create template configuration",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return false, fmt.Errorf("failed to create template config: %w", err)
	}

	s.logger.Info(ctx, "Template configuration created", domain.NewField("config_path", configPath))
	return true, nil
}

// mask は空でない秘密値を伏せ字にする
func mask(v string) string {
	if v == "" {
		return ""
	}
	return maskedValue
}
