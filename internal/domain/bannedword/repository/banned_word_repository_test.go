package repository

import (
	"context"
	"strings"
	"testing"

	"freedom_wall/internal/domain/bannedword/model"
	"freedom_wall/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) BannedWordRepository {
	t.Helper()
	name := "bw_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory(name)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.BannedWord{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewBannedWordRepository(db)
}

func TestBannedWordCRUD(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	spam := &model.BannedWord{Word: "spam", IsActive: true}
	require.NoError(t, repo.Create(ctx, spam))
	require.NoError(t, repo.Create(ctx, &model.BannedWord{Word: "eggs", IsActive: false}))
	require.NoError(t, repo.Create(ctx, &model.BannedWord{Word: "ham", IsActive: true}))

	words, err := repo.ActiveWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ham", "spam"}, words)

	found, err := repo.FindByWord(ctx, "eggs")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.IsActive)

	missing, err := repo.FindByWord(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, repo.Create(ctx, &model.BannedWord{Word: "spam"}), "word is unique")

	spam.IsActive = false
	require.NoError(t, repo.Update(ctx, spam))
	words, _ = repo.ActiveWords(ctx)
	assert.Equal(t, []string{"ham"}, words)

	ok, err := repo.Delete(ctx, spam.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = repo.GetByID(ctx, spam.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
