package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/school-georesolver/internal/config"
	"go.uber.org/zap"
)

const (
	connectAttempts = 3
	connectBackoff  = 500 * time.Millisecond
)

// DB - пул соединений хранилища выбора
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// Open открывает пул через драйвер pgx и ждёт доступности базы
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Open("pgx", cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	dbc := cfg.Database
	db.SetMaxOpenConns(dbc.MaxConns)
	db.SetMaxIdleConns(dbc.MaxIdleConns)
	db.SetConnMaxLifetime(dbc.ConnMaxLifetime)
	db.SetConnMaxIdleTime(dbc.ConnMaxIdleTime)

	if err := pingWithRetry(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres %s:%d/%s unavailable: %w", dbc.Host, dbc.Port, dbc.DBName, err)
	}

	logger.Info("PostgreSQL selection store connected",
		zap.String("host", dbc.Host),
		zap.String("database", dbc.DBName),
		zap.Int("max_conns", dbc.MaxConns))

	return Wrap(db, logger), nil
}

func pingWithRetry(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		logger.Warn("PostgreSQL ping failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(connectBackoff * time.Duration(attempt)):
		}
	}
	return err
}

// Wrap оборачивает уже открытый пул, например тестовый
func Wrap(db *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: db, logger: logger}
}

func (db *DB) Close() error {
	db.logger.Debug("Closing PostgreSQL pool")
	return db.DB.Close()
}
