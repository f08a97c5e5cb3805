package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/school-georesolver/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepo(t *testing.T, path string) *SelectionRepository {
	repo, err := NewSelectionRepository(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSelectionRepository_RoundTrip(t *testing.T) {
	repo := newTestRepo(t, filepath.Join(t.TempDir(), "sel.db"))
	ctx := context.Background()
	p := domain.Point{Lat: -9.39, Lon: -38.23}

	sel, err := repo.Load(ctx, p)
	require.NoError(t, err)
	assert.Nil(t, sel)

	savedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, p, domain.SelectionOverride{OriginType: domain.OriginNode, OriginID: "5", SavedAt: savedAt}))
	require.NoError(t, repo.Save(ctx, p, domain.SelectionOverride{OriginType: domain.OriginRelation, OriginID: "9", SavedAt: savedAt}))

	sel, err = repo.Load(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "relation:9", sel.Identity())
	assert.True(t, savedAt.Equal(sel.SavedAt))

	require.NoError(t, repo.Delete(ctx, p))
	sel, err = repo.Load(ctx, p)
	require.NoError(t, err)
	assert.Nil(t, sel)
}

func TestSelectionRepository_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sel.db")
	ctx := context.Background()
	p := domain.Point{Lat: 1, Lon: 2}

	first, err := NewSelectionRepository(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, p, domain.SelectionOverride{OriginType: domain.OriginWay, OriginID: "77"}))
	require.NoError(t, first.Close())

	second := newTestRepo(t, path)
	sel, err := second.Load(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "way:77", sel.Identity())
}

func TestSelectionRepository_MalformedIsAbsent(t *testing.T) {
	repo := newTestRepo(t, filepath.Join(t.TempDir(), "sel.db"))
	ctx := context.Background()
	p := domain.Point{Lat: 1, Lon: 2}

	_, err := repo.db.Exec("INSERT INTO selections (key, value, updated_at) VALUES (?, ?, 0)",
		domain.SelectionKey(p), `{"osmType":"area","osmId":"1"}`)
	require.NoError(t, err)

	sel, err := repo.Load(ctx, p)
	require.NoError(t, err)
	assert.Nil(t, sel)
}
