package testhelpers

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewSelectionRepositoryForTest создаёт схему и хранилище выбора на тестовой базе
func NewSelectionRepositoryForTest(db *sqlx.DB, logger *zap.Logger) (repository.SelectionRepository, error) {
	pgDB := postgres.Wrap(db, logger)
	if err := postgres.EnsureSchema(context.Background(), pgDB); err != nil {
		return nil, err
	}
	return postgres.NewSelectionRepository(pgDB), nil
}
