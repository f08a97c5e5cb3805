package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/school-georesolver/internal/domain"
	"go.uber.org/zap"

	_ "modernc.org/sqlite" // SQLite driver
)

// SelectionRepository - файловое хранилище выбора (ключ-значение в SQLite)
type SelectionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSelectionRepository открывает базу и создаёт схему при необходимости
func NewSelectionRepository(path string, logger *zap.Logger) (*SelectionRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Один писатель: SQLite сериализует запись
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("SQLite selection store opened", zap.String("path", path))

	return &SelectionRepository{db: db, logger: logger}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS selections (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func (r *SelectionRepository) Load(ctx context.Context, point domain.Point) (*domain.SelectionOverride, error) {
	key := domain.SelectionKey(point)

	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM selections WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}

	var sel domain.SelectionOverride
	if err := json.Unmarshal([]byte(value), &sel); err != nil || !sel.Valid() {
		r.logger.Warn("Ignoring malformed selection", zap.String("key", key), zap.Error(err))
		return nil, nil
	}

	return &sel, nil
}

func (r *SelectionRepository) Save(ctx context.Context, point domain.Point, sel domain.SelectionOverride) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO selections (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		domain.SelectionKey(point), string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}

	return nil
}

func (r *SelectionRepository) Delete(ctx context.Context, point domain.Point) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM selections WHERE key = ?", domain.SelectionKey(point)); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	return nil
}

func (r *SelectionRepository) Close() error {
	return r.db.Close()
}
