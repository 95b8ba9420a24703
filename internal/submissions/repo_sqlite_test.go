package submissions

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursefit-backend/internal/shared/storage/db"
)

func newSQLiteRepo(t *testing.T) *SQLRepo {
	t.Helper()
	url := "sqlite://" + filepath.Join(t.TempDir(), "coursefit.db")
	target, err := db.ParseURL(url)
	require.NoError(t, err)
	conn, err := db.Connect(context.Background(), url, db.DefaultServerOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), conn, target.Dialect))
	return &SQLRepo{DB: conn, Dialect: target.Dialect}
}

func TestSQLiteRepoRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	first := sampleSubmission()
	second := sampleSubmission()
	second.ID = "sub-2"
	second.Teacher = "Mr. Neves"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	third := sampleSubmission()
	third.ID = "sub-3"
	third.CreatedAt = first.CreatedAt

	for _, sub := range []Submission{first, second, third} {
		require.NoError(t, repo.Create(ctx, sub))
	}

	got, err := repo.GetByID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, first.Recommendation, got.Recommendation)
	assert.Equal(t, first.Answers, got.Answers)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"sub-2", "sub-3", "sub-1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	scoped, err := repo.List(ctx, Filter{Teacher: "Mr. Radia", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "sub-1", scoped[0].ID)

	n, err := repo.Count(ctx, "Mr. Radia")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
