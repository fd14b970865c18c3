package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/ca-srg/opday/domain/repository"
	"github.com/ca-srg/opday/infrastructure/config"
)

// maxConfigBackups は保持するバックアップファイルの数
const maxConfigBackups = 5

// JSONConfigRepository は JSON形式で設定を管理するリポジトリ実装
type JSONConfigRepository struct {
	configDir  string
	configFile string
	now        func() time.Time
}

// NewJSONConfigRepository は ~/.config/opday/config.json を扱うリポジトリを作成する
func NewJSONConfigRepository() repository.ConfigRepository {
	homeDir, _ := os.UserHomeDir()
	return NewJSONConfigRepositoryWithPath(filepath.Join(homeDir, ".config", "opday", "config.json"))
}

// NewJSONConfigRepositoryWithPath は任意のパスの設定ファイルを扱うリポジトリを作成する
func NewJSONConfigRepositoryWithPath(configFile string) *JSONConfigRepository {
	return &JSONConfigRepository{
		configDir:  filepath.Dir(configFile),
		configFile: configFile,
		now:        time.Now,
	}
}

// Exists は設定ファイルが存在するかどうかを確認する
func (r *JSONConfigRepository) Exists() (bool, error) {
	_, err := os.Stat(r.configFile)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check config file existence: %w", err)
}

// Load は設定ファイルから設定を読み込む
func (r *JSONConfigRepository) Load() (*config.AppConfig, error) {
	exists, err := r.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		// ファイルが存在しない場合はnilを返す（エラーではない）
		return nil, nil
	}

	if err := r.ensureSecurePermissions(r.configFile, false); err != nil {
		return nil, fmt.Errorf("config file security check failed: %w", err)
	}

	data, err := os.ReadFile(r.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg config.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save は設定をファイルに保存する
func (r *JSONConfigRepository) Save(cfg *config.AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := r.ensureConfigDir(); err != nil {
		return err
	}

	// 既存ファイルがある場合はバックアップを作成
	if err := r.backup(); err != nil {
		// バックアップ失敗は保存を止めない
		fmt.Fprintf(os.Stderr, "Warning: failed to create backup: %v\n", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 一時ファイルに書き込んでからアトミックに置き換え
	tmpFile := r.configFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}

	if err := os.Rename(tmpFile, r.configFile); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return r.ensureSecurePermissions(r.configFile, false)
}

// GetConfigPath は設定ファイルのパスを返す
func (r *JSONConfigRepository) GetConfigPath() string {
	return r.configFile
}

// ensureConfigDir は設定ディレクトリが存在することを保証する
func (r *JSONConfigRepository) ensureConfigDir() error {
	if err := os.MkdirAll(r.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return r.ensureSecurePermissions(r.configDir, true)
}

// backup は現在の設定ファイルのバックアップを作成し、古いものを削除する
func (r *JSONConfigRepository) backup() error {
	data, err := os.ReadFile(r.configFile)
	if os.IsNotExist(err) {
		return nil // バックアップするものがない
	}
	if err != nil {
		return fmt.Errorf("failed to read config file for backup: %w", err)
	}

	backupFile := fmt.Sprintf("%s.backup.%s", r.configFile, r.now().Format("20060102-150405.000"))
	if err := os.WriteFile(backupFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	matches, err := filepath.Glob(r.configFile + ".backup.*")
	if err != nil {
		return err
	}
	// タイムスタンプ形式なので名前順が古い順
	sort.Strings(matches)
	for i := 0; i < len(matches)-maxConfigBackups; i++ {
		if err := os.Remove(matches[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove old backup %s: %v\n", matches[i], err)
		}
	}

	return nil
}

// ensureSecurePermissions はファイルまたはディレクトリの権限を確保する
func (r *JSONConfigRepository) ensureSecurePermissions(path string, isDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	expectedMode := os.FileMode(0600)
	if isDir {
		expectedMode = 0700
	}

	if info.Mode().Perm() != expectedMode {
		if err := os.Chmod(path, expectedMode); err != nil {
			return fmt.Errorf("failed to set permissions: %w", err)
		}
	}

	// 所有者の確認（Unix系OSのみ）
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		if currentUID := uint32(os.Getuid()); stat.Uid != currentUID {
			return fmt.Errorf("file is not owned by current user (uid: %d, expected: %d)", stat.Uid, currentUID)
		}
	}

	return nil
}
