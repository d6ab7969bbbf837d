package sqlite

import (
	"context"
	"testing"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermarkRepo_LoadMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatermarkRepo(db, model.Repository{Owner: "owner", Name: "repo"})

	n, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWatermarkRepo_SaveAndLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatermarkRepo(db, model.Repository{Owner: "owner", Name: "repo"})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, 7))

	n, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	require.NoError(t, repo.Save(ctx, 12))

	n, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestWatermarkRepo_NeverDecreases(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatermarkRepo(db, model.Repository{Owner: "owner", Name: "repo"})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, 20))
	require.NoError(t, repo.Save(ctx, 4))

	n, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestWatermarkRepo_IsolatedPerRepository(t *testing.T) {
	db := setupTestDB(t)
	a := NewWatermarkRepo(db, model.Repository{Owner: "owner", Name: "a"})
	b := NewWatermarkRepo(db, model.Repository{Owner: "owner", Name: "b"})
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, 3))
	require.NoError(t, b.Save(ctx, 9))

	n, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestWatermarkRepo_SaveRejectsNegative(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatermarkRepo(db, model.Repository{Owner: "owner", Name: "repo"})

	err := repo.Save(context.Background(), -1)

	require.Error(t, err)
}

func TestRunMigrations_IdempotentRerun(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, RunMigrations(db.Writer))
}
