package testhelpers

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/school-georesolver/internal/config"
	"go.uber.org/zap"
)

// TestDB - подключение к тестовой базе через lib/pq
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB подключается к базе из TEST_DB_*; без TEST_DB_HOST тест пропускается
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	cfg := testConfig()
	if cfg.Database.Host == "" {
		t.Skip("TEST_DB_HOST not set, skipping PostgreSQL tests")
	}

	db, err := sqlx.Connect("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	tdb := &TestDB{DB: db, Logger: zap.NewNop()}
	t.Cleanup(tdb.Close)
	return tdb
}

func testConfig() *config.Config {
	port, err := strconv.Atoi(envOr("TEST_DB_PORT", "5433"))
	if err != nil {
		port = 5433
	}
	return &config.Config{Database: config.DatabaseConfig{
		Host:     os.Getenv("TEST_DB_HOST"),
		Port:     port,
		User:     envOr("TEST_DB_USER", "postgres"),
		Password: envOr("TEST_DB_PASSWORD", "postgres"),
		DBName:   envOr("TEST_DB_NAME", "georesolver_test"),
		SSLMode:  envOr("TEST_DB_SSLMODE", "disable"),
	}}
}

func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.Close()
		tdb.DB = nil
	}
}

// Cleanup очищает таблицу выбора
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE school_selections")
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
