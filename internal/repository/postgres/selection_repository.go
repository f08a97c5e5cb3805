package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"go.uber.org/zap"
)

const selectionSchema = `
	CREATE TABLE IF NOT EXISTS school_selections (
		key        TEXT PRIMARY KEY,
		osm_type   TEXT NOT NULL,
		osm_id     TEXT NOT NULL,
		saved_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

type selectionRow struct {
	Key     string    `db:"key"`
	OSMType string    `db:"osm_type"`
	OSMID   string    `db:"osm_id"`
	SavedAt time.Time `db:"saved_at"`
}

type selectionRepository struct {
	db *DB
}

// NewSelectionRepository - хранилище выбора в таблице school_selections
func NewSelectionRepository(db *DB) repository.SelectionRepository {
	return &selectionRepository{db: db}
}

// EnsureSchema создаёт таблицу выбора, если её нет
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.ExecContext(ctx, selectionSchema); err != nil {
		return fmt.Errorf("failed to create selection table: %w", err)
	}
	return nil
}

func (r *selectionRepository) Load(ctx context.Context, point domain.Point) (*domain.SelectionOverride, error) {
	key := domain.SelectionKey(point)

	var row selectionRow
	err := r.db.GetContext(ctx, &row,
		`SELECT key, osm_type, osm_id, saved_at FROM school_selections WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}

	sel := &domain.SelectionOverride{
		OriginType: domain.OriginType(row.OSMType),
		OriginID:   row.OSMID,
		SavedAt:    row.SavedAt.UTC(),
	}
	if !sel.Valid() {
		r.db.logger.Warn("Ignoring malformed selection", zap.String("key", key))
		return nil, nil
	}

	return sel, nil
}

func (r *selectionRepository) Save(ctx context.Context, point domain.Point, sel domain.SelectionOverride) error {
	savedAt := sel.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO school_selections (key, osm_type, osm_id, saved_at)
		VALUES (:key, :osm_type, :osm_id, :saved_at)
		ON CONFLICT (key) DO UPDATE
		SET osm_type = EXCLUDED.osm_type, osm_id = EXCLUDED.osm_id, saved_at = EXCLUDED.saved_at`,
		selectionRow{
			Key:     domain.SelectionKey(point),
			OSMType: string(sel.OriginType),
			OSMID:   sel.OriginID,
			SavedAt: savedAt,
		})
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}

	return nil
}

func (r *selectionRepository) Delete(ctx context.Context, point domain.Point) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM school_selections WHERE key = $1`, domain.SelectionKey(point)); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	return nil
}
