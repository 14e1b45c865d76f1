package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: filepath.Join(t.TempDir(), "nested", "analyses.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, SQLite, db.Dialect)
	require.NoError(t, db.HealthCheck(context.Background(), time.Second))

	// migrating twice is a no-op
	require.NoError(t, db.migrate(context.Background()))
}

func TestAnalysisCreateAndGet(t *testing.T) {
	repo := NewAnalysisRepository(openTestDB(t), nil)
	ctx := context.Background()

	created, err := repo.Create(ctx, Analysis{
		Filename:    "lease.pdf",
		ContentHash: "abc123",
		Status:      "LLM_OK",
		RecordJSON:  []byte(`{"tenant":"John Roe"}`),
		RawResponse: `{"tenant":"John Roe"}`,
		Model:       "gpt-4o-mini",
		ElapsedMS:   420,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "lease.pdf", got.Filename)
	assert.JSONEq(t, `{"tenant":"John Roe"}`, string(got.RecordJSON))
	assert.Equal(t, int64(420), got.ElapsedMS)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)

	byHash, err := repo.FindByContentHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byHash.ID)
}

func TestAnalysisGetMissing(t *testing.T) {
	repo := NewAnalysisRepository(openTestDB(t), nil)
	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = repo.FindByContentHash(context.Background(), "nope")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestAnalysisListRecent(t *testing.T) {
	repo := NewAnalysisRepository(openTestDB(t), nil)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		_, err := repo.Create(ctx, Analysis{
			Filename:    name,
			ContentHash: name,
			Status:      "LLM_OK",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	list, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c.pdf", list[0].Filename)
	assert.Equal(t, "b.pdf", list[1].Filename)

	all, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
	lite := &DB{Dialect: SQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://u:p@localhost/db"))
	assert.True(t, isPostgres("postgresql://localhost/db"))
	assert.False(t, isPostgres("./tmp/analyses.db"))
}
