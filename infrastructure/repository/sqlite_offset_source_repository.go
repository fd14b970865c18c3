package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/infrastructure/config"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteSourceName = "sqlite"

	createSettingsTable = `CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

	upsertSetting = `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// SQLiteOffsetSourceRepository reads and writes the cutover in a local settings database
type SQLiteOffsetSourceRepository struct {
	dbPath string
	key    string
	now    func() time.Time
}

// NewSQLiteOffsetSourceRepository creates a new SQLite source; an empty path
// means ~/.config/opday/opday.db
func NewSQLiteOffsetSourceRepository(cfg *config.SQLiteSourceConfig) *SQLiteOffsetSourceRepository {
	path, key := "", "daily_cutover_time"
	if cfg != nil {
		path = cfg.Path
		if cfg.Key != "" {
			key = cfg.Key
		}
	}
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			homeDir = "."
		}
		path = filepath.Join(homeDir, ".config", "opday", "opday.db")
	}

	return &SQLiteOffsetSourceRepository{
		dbPath: path,
		key:    key,
		now:    time.Now,
	}
}

func (r *SQLiteOffsetSourceRepository) Name() string {
	return sqliteSourceName
}

// Path returns the database file location
func (r *SQLiteOffsetSourceRepository) Path() string {
	return r.dbPath
}

// FetchOffset reads the cutover row
func (r *SQLiteOffsetSourceRepository) FetchOffset(ctx context.Context) (string, error) {
	if _, err := os.Stat(r.dbPath); os.IsNotExist(err) {
		return "", domain.ErrConfigFetchFailed(sqliteSourceName, "database file not found").
			WithDetails("path", r.dbPath)
	}

	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return "", domain.ErrConfigFetchFailedWithCause(sqliteSourceName, err)
	}
	defer func() {
		_ = db.Close()
	}()

	var value string
	err = db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", r.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrConfigFetchFailed(sqliteSourceName, fmt.Sprintf("no %q setting", r.key))
		}
		return "", domain.ErrConfigFetchFailedWithCause(sqliteSourceName, err).
			WithDetails("path", r.dbPath)
	}

	return value, nil
}

// StoreOffset upserts the cutover row, creating the database when needed
func (r *SQLiteOffsetSourceRepository) StoreOffset(ctx context.Context, raw string) error {
	if err := os.MkdirAll(filepath.Dir(r.dbPath), 0700); err != nil {
		return domain.ErrRepository("sqlite.StoreOffset", err)
	}

	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return domain.ErrRepository("sqlite.StoreOffset", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if _, err := db.ExecContext(ctx, createSettingsTable); err != nil {
		return domain.ErrRepository("sqlite.StoreOffset", err)
	}

	updatedAt := r.now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx, upsertSetting, r.key, raw, updatedAt); err != nil {
		return domain.ErrRepository("sqlite.StoreOffset", err)
	}

	return nil
}
