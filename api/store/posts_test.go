package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/rafa-porto/dev-connect/api/database"
	"github.com/rafa-porto/dev-connect/api/models"
	"github.com/rafa-porto/dev-connect/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*store.PostStore, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", time.Second)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	posts, err := store.NewPostStore(db)
	require.NoError(t, err)
	return posts, db
}

func seedPost(t *testing.T, db *gorm.DB, id, author string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Post{
		ID:        id,
		UserID:    author,
		Content:   "post " + id,
		CreatedAt: at,
		UpdatedAt: at,
	}).Error)
}

func TestListByAuthorsMergesNewestFirst(t *testing.T) {
	posts, db := setupStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	seedPost(t, db, "p1", "alice", base)
	seedPost(t, db, "p2", "bob", base.Add(time.Minute))
	seedPost(t, db, "p3", "carol", base.Add(2*time.Minute))
	seedPost(t, db, "p4", "alice", base.Add(3*time.Minute))

	got, err := posts.ListByAuthors(context.Background(), []string{"alice", "bob"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p4", got[0].ID)
	assert.Equal(t, "p2", got[1].ID)
	assert.Equal(t, "p1", got[2].ID)
	assert.Equal(t, "alice", got[0].UserID)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(3*time.Minute)))
	assert.Nil(t, got[0].ParentPostID)

	page, err := posts.ListByAuthors(context.Background(), []string{"alice", "bob"}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "p1", page[0].ID)
}

func TestListByAuthorsBreaksTimestampTiesByID(t *testing.T) {
	posts, db := setupStore(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, db, "a", "alice", at)
	seedPost(t, db, "b", "alice", at)

	got, err := posts.ListByAuthors(context.Background(), []string{"alice"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestListByAuthorsWithoutAuthors(t *testing.T) {
	posts, _ := setupStore(t)

	got, err := posts.ListByAuthors(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListBookmarkedOrdersByBookmarkTime(t *testing.T) {
	posts, db := setupStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, db, "old", "bob", base)
	seedPost(t, db, "new", "bob", base.Add(time.Hour))

	require.NoError(t, db.Create(&models.Bookmark{UserID: "alice", PostID: "new", CreatedAt: base.Add(2 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Bookmark{UserID: "alice", PostID: "old", CreatedAt: base.Add(3 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Bookmark{UserID: "carol", PostID: "new", CreatedAt: base.Add(4 * time.Hour)}).Error)

	got, err := posts.ListBookmarked(context.Background(), "alice", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "old", got[0].ID)
	assert.Equal(t, "new", got[1].ID)

	got, err = posts.ListBookmarked(context.Background(), "alice", 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestListRecentSpansAuthors(t *testing.T) {
	posts, db := setupStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	seedPost(t, db, "p1", "alice", base)
	seedPost(t, db, "p2", "bob", base.Add(time.Minute))
	seedPost(t, db, "p3", "carol", base.Add(2*time.Minute))

	got, err := posts.ListRecent(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p3", got[0].ID)
	assert.Equal(t, "p2", got[1].ID)

	got, err = posts.ListRecent(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
}

func TestSearchUsersOrdersByFollowers(t *testing.T) {
	posts, db := setupStore(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.User{
		{ID: "u1", Username: "gopher", Email: "g@example.com", FollowerCount: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "u2", Username: "golang", Email: "l@example.com", FollowerCount: 7, CreatedAt: now, UpdatedAt: now},
		{ID: "u3", Username: "someone", Email: "s@example.com", Name: "Go Fan", FollowerCount: 3, CreatedAt: now, UpdatedAt: now},
		{ID: "u4", Username: "rustacean", Email: "r@example.com", FollowerCount: 100, CreatedAt: now, UpdatedAt: now},
	}).Error)

	got, err := posts.SearchUsers(context.Background(), "GO", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "u2", got[0].ID)
	assert.Equal(t, "u3", got[1].ID)
	assert.Equal(t, "u1", got[2].ID)
	assert.EqualValues(t, 7, got[0].FollowerCount)
}
