package engagement

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/database"
	"github.com/rafa-porto/dev-connect/api/events"
	"github.com/rafa-porto/dev-connect/api/models"
	"github.com/rafa-porto/dev-connect/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.EngagementEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.EngagementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Subject
	}
	return out
}

func setupService(t *testing.T, opts ...Option) (*Service, *gorm.DB) {
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

	opts = append([]Option{WithClock(newTestClock().Now)}, opts...)
	return NewService(db, posts, opts...), db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com"}
	user.Prepare()
	require.Empty(t, user.Validate())
	saved, err := user.SaveUser(db)
	require.NoError(t, err)
	return saved
}

func createPost(t *testing.T, svc *Service, userID, content string) *models.Post {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), CreatePostRequest{UserID: userID, Content: content})
	require.NoError(t, err)
	return post
}

func reloadUser(t *testing.T, svc *Service, id string) *models.User {
	t.Helper()
	user, err := svc.GetUser(context.Background(), id)
	require.NoError(t, err)
	return user
}

func reloadPost(t *testing.T, svc *Service, id string) *models.Post {
	t.Helper()
	post, err := svc.GetPost(context.Background(), id)
	require.NoError(t, err)
	return post
}

// assertInvariants checks every counter against its edges: a recount that has to fix
// anything means a mutation left them out of sync.
func assertInvariants(t *testing.T, svc *Service) {
	t.Helper()
	repaired, err := svc.RecountCounters(context.Background())
	require.NoError(t, err)
	assert.Zero(t, repaired, "counters drifted from edges")
}

func postIDs(posts []models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func userIDs(users []models.User) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func TestFollowUpdatesBothCounters(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	alice := createUser(t, svc.DB(), "alice")
	bob := createUser(t, svc.DB(), "bob")

	follow, err := svc.Follow(ctx, FollowRequest{FollowerID: alice.ID, FollowingID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, follow.FollowerID)
	assert.Equal(t, bob.ID, follow.FollowingID)
	assert.NotEmpty(t, follow.ID)

	assert.EqualValues(t, 1, reloadUser(t, svc, alice.ID).FollowingCount)
	assert.EqualValues(t, 0, reloadUser(t, svc, alice.ID).FollowerCount)
	assert.EqualValues(t, 1, reloadUser(t, svc, bob.ID).FollowerCount)
	assert.EqualValues(t, 0, reloadUser(t, svc, bob.ID).FollowingCount)
	assertInvariants(t, svc)
}

func TestFollowSelfIsRejected(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	_, err := svc.Follow(ctx, FollowRequest{FollowerID: alice.ID, FollowingID: alice.ID})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeSelfReference))

	_, err = svc.Follow(ctx, FollowRequest{FollowerID: "ghost", FollowingID: "ghost"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeSelfReference))

	user := reloadUser(t, svc, alice.ID)
	assert.EqualValues(t, 0, user.FollowerCount)
	assert.EqualValues(t, 0, user.FollowingCount)
	assert.Zero(t, countRows(t, db, &models.Follow{}, "1 = 1"))
}

func TestFollowMissingUserIsNotFound(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	_, err := svc.Follow(ctx, FollowRequest{FollowerID: alice.ID, FollowingID: "missing"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.Follow(ctx, FollowRequest{FollowerID: "missing", FollowingID: alice.ID})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	assert.EqualValues(t, 0, reloadUser(t, svc, alice.ID).FollowingCount)
	assert.EqualValues(t, 0, reloadUser(t, svc, alice.ID).FollowerCount)
	assert.Zero(t, countRows(t, db, &models.Follow{}, "1 = 1"))
}

func TestFollowTwiceIsAlreadyExists(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	req := FollowRequest{FollowerID: alice.ID, FollowingID: bob.ID}

	_, err := svc.Follow(ctx, req)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, req)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeAlreadyExists))

	assert.EqualValues(t, 1, countRows(t, db, &models.Follow{}, "follower_id = ? AND following_id = ?", alice.ID, bob.ID))
	assert.EqualValues(t, 1, reloadUser(t, svc, bob.ID).FollowerCount)
	assert.EqualValues(t, 1, reloadUser(t, svc, alice.ID).FollowingCount)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	req := FollowRequest{FollowerID: alice.ID, FollowingID: bob.ID}

	_, err := svc.Follow(ctx, req)
	require.NoError(t, err)

	require.NoError(t, svc.Unfollow(ctx, req))
	require.NoError(t, svc.Unfollow(ctx, req))

	assert.EqualValues(t, 0, reloadUser(t, svc, bob.ID).FollowerCount)
	assert.EqualValues(t, 0, reloadUser(t, svc, alice.ID).FollowingCount)
	assertInvariants(t, svc)

	// Never-existing edges and unknown users are no-ops too.
	assert.NoError(t, svc.Unfollow(ctx, FollowRequest{FollowerID: bob.ID, FollowingID: "missing"}))
}

func TestLikeAndBookmarkLifecycle(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, svc, bob.ID, "hello world")
	req := PostEdgeRequest{UserID: alice.ID, PostID: post.ID}

	like, err := svc.Like(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, post.ID, like.PostID)
	_, err = svc.Like(ctx, req)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeAlreadyExists))

	bookmark, err := svc.Bookmark(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, bookmark.UserID)
	_, err = svc.Bookmark(ctx, req)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeAlreadyExists))

	reloaded := reloadPost(t, svc, post.ID)
	assert.EqualValues(t, 1, reloaded.LikeCount)
	assert.EqualValues(t, 1, reloaded.BookmarkCount)
	assertInvariants(t, svc)

	require.NoError(t, svc.Unlike(ctx, req))
	require.NoError(t, svc.Unlike(ctx, req))
	require.NoError(t, svc.RemoveBookmark(ctx, req))
	require.NoError(t, svc.RemoveBookmark(ctx, req))

	reloaded = reloadPost(t, svc, post.ID)
	assert.EqualValues(t, 0, reloaded.LikeCount)
	assert.EqualValues(t, 0, reloaded.BookmarkCount)
	assertInvariants(t, svc)
}

func TestLikeMissingEntitiesIsNotFound(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	post := createPost(t, svc, alice.ID, "mine")

	_, err := svc.Like(ctx, PostEdgeRequest{UserID: alice.ID, PostID: "missing"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.Bookmark(ctx, PostEdgeRequest{UserID: "missing", PostID: post.ID})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.Like(ctx, PostEdgeRequest{UserID: "", PostID: post.ID})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	assert.EqualValues(t, 0, reloadPost(t, svc, post.ID).LikeCount)
	assert.EqualValues(t, 0, reloadPost(t, svc, post.ID).BookmarkCount)
}

func TestInvariantsHoldAcrossOperationSequence(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	users := make([]*models.User, 4)
	for i := range users {
		users[i] = createUser(t, db, fmt.Sprintf("user%d", i))
	}
	posts := make([]*models.Post, 3)
	for i := range posts {
		posts[i] = createPost(t, svc, users[i].ID, fmt.Sprintf("post %d", i))
	}

	steps := []func() error{
		func() error { _, err := svc.Follow(ctx, FollowRequest{users[0].ID, users[1].ID}); return err },
		func() error { _, err := svc.Follow(ctx, FollowRequest{users[1].ID, users[0].ID}); return err },
		func() error { _, err := svc.Follow(ctx, FollowRequest{users[2].ID, users[0].ID}); return err },
		func() error { _, err := svc.Like(ctx, PostEdgeRequest{users[3].ID, posts[0].ID}); return err },
		func() error { _, err := svc.Like(ctx, PostEdgeRequest{users[0].ID, posts[0].ID}); return err },
		func() error { _, err := svc.Bookmark(ctx, PostEdgeRequest{users[1].ID, posts[2].ID}); return err },
		func() error { return svc.Unfollow(ctx, FollowRequest{users[0].ID, users[1].ID}) },
		func() error { return svc.Unlike(ctx, PostEdgeRequest{users[3].ID, posts[0].ID}) },
		func() error { _, err := svc.Follow(ctx, FollowRequest{users[0].ID, users[1].ID}); return err },
		func() error { return svc.RemoveBookmark(ctx, PostEdgeRequest{users[1].ID, posts[2].ID}) },
		func() error { return svc.RemoveBookmark(ctx, PostEdgeRequest{users[1].ID, posts[2].ID}) },
		func() error { _, err := svc.Bookmark(ctx, PostEdgeRequest{users[3].ID, posts[1].ID}); return err },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assertInvariants(t, svc)
	}

	assert.EqualValues(t, 2, reloadUser(t, svc, users[0].ID).FollowerCount)
	assert.EqualValues(t, 1, reloadUser(t, svc, users[1].ID).FollowerCount)
	assert.EqualValues(t, 1, reloadPost(t, svc, posts[0].ID).LikeCount)
	assert.EqualValues(t, 0, reloadPost(t, svc, posts[2].ID).BookmarkCount)
	assert.EqualValues(t, 1, reloadPost(t, svc, posts[1].ID).BookmarkCount)
}

func TestConcurrentFollowersAllCounted(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	target := createUser(t, db, "popular")

	const n = 25
	followers := make([]*models.User, n)
	for i := range followers {
		followers[i] = createUser(t, db, fmt.Sprintf("fan%d", i))
	}

	var g errgroup.Group
	for _, follower := range followers {
		followerID := follower.ID
		g.Go(func() error {
			_, err := svc.Follow(ctx, FollowRequest{FollowerID: followerID, FollowingID: target.ID})
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, n, reloadUser(t, svc, target.ID).FollowerCount)
	assertInvariants(t, svc)
}

func TestConcurrentDuplicateFollowInsertsOnce(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Follow(ctx, FollowRequest{FollowerID: alice.ID, FollowingID: bob.ID})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeAlreadyExists), err.Error())
	}
	assert.Equal(t, 1, succeeded)
	assert.EqualValues(t, 1, reloadUser(t, svc, bob.ID).FollowerCount)
	assert.EqualValues(t, 1, countRows(t, db, &models.Follow{}, "1 = 1"))
}

func TestFeedComposition(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	u3 := createUser(t, db, "u3")

	_, err := svc.Follow(ctx, FollowRequest{FollowerID: u1.ID, FollowingID: u2.ID})
	require.NoError(t, err)

	p1 := createPost(t, svc, u1.ID, "P1")
	p2 := createPost(t, svc, u2.ID, "P2")
	createPost(t, svc, u3.ID, "P3")

	feed, err := svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID, Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID, p1.ID}, postIDs(feed))
}

func TestFeedWithoutFollowsShowsOwnPosts(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	loner := createUser(t, db, "loner")
	other := createUser(t, db, "other")
	own := createPost(t, svc, loner.ID, "just me")
	createPost(t, svc, other.ID, "not for you")

	feed, err := svc.GetFeed(ctx, FeedRequest{ViewerID: loner.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{own.ID}, postIDs(feed))
}

func TestFeedPagination(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")

	posts := make([]*models.Post, 5)
	for i := range posts {
		posts[i] = createPost(t, svc, u1.ID, fmt.Sprintf("post %d", i))
	}

	first, err := svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID, Limit: 2, Offset: 0})
	require.NoError(t, err)
	second, err := svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID, Limit: 2, Offset: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{posts[4].ID, posts[3].ID}, postIDs(first))
	assert.Equal(t, []string{posts[2].ID, posts[1].ID}, postIDs(second))
	for _, id := range postIDs(first) {
		assert.NotContains(t, postIDs(second), id)
	}

	beyond, err := svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID, Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestFeedRequestBounds(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")
	for i := 0; i < MaxFeedLimit+5; i++ {
		createPost(t, svc, u1.ID, fmt.Sprintf("post %d", i))
	}

	feed, err := svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID})
	require.NoError(t, err)
	assert.Len(t, feed, DefaultFeedLimit)

	feed, err = svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID, Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, feed, MaxFeedLimit)

	_, err = svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID, Offset: -1})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	_, err = svc.GetFeed(ctx, FeedRequest{ViewerID: "missing"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestFeedReflectsUnfollow(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	req := FollowRequest{FollowerID: u1.ID, FollowingID: u2.ID}

	_, err := svc.Follow(ctx, req)
	require.NoError(t, err)
	p2 := createPost(t, svc, u2.ID, "P2")

	feed, err := svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID}, postIDs(feed))

	require.NoError(t, svc.Unfollow(ctx, req))
	feed, err = svc.GetFeed(ctx, FeedRequest{ViewerID: u1.ID})
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestListFollowersAndFollowingNewestFirst(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	star := createUser(t, db, "star")
	fans := []*models.User{createUser(t, db, "b"), createUser(t, db, "c"), createUser(t, db, "d")}
	for _, fan := range fans {
		_, err := svc.Follow(ctx, FollowRequest{FollowerID: fan.ID, FollowingID: star.ID})
		require.NoError(t, err)
	}
	for _, target := range fans {
		_, err := svc.Follow(ctx, FollowRequest{FollowerID: star.ID, FollowingID: target.ID})
		require.NoError(t, err)
	}

	followers, err := svc.ListFollowers(ctx, ListRequest{UserID: star.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{fans[2].ID, fans[1].ID, fans[0].ID}, userIDs(followers))

	page, err := svc.ListFollowers(ctx, ListRequest{UserID: star.ID, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{fans[1].ID}, userIDs(page))

	following, err := svc.ListFollowing(ctx, ListRequest{UserID: star.ID, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{fans[2].ID, fans[1].ID}, userIDs(following))

	empty, err := svc.ListFollowing(ctx, ListRequest{UserID: star.ID, Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.ListFollowers(ctx, ListRequest{UserID: "missing"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestGetRelationship(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.Follow(ctx, FollowRequest{FollowerID: alice.ID, FollowingID: bob.ID})
	require.NoError(t, err)

	rel, err := svc.GetRelationship(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, Relationship{Following: true}, rel)

	_, err = svc.Follow(ctx, FollowRequest{FollowerID: bob.ID, FollowingID: alice.ID})
	require.NoError(t, err)
	rel, err = svc.GetRelationship(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, Relationship{Following: true, FollowedBy: true, Mutual: true}, rel)

	_, err = svc.EdgeExists(ctx, EdgeKind("poke"), alice.ID, bob.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestDeleteUserCascadesCounters(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	u3 := createUser(t, db, "u3")

	_, err := svc.Follow(ctx, FollowRequest{FollowerID: u1.ID, FollowingID: u2.ID})
	require.NoError(t, err)
	_, err = svc.Follow(ctx, FollowRequest{FollowerID: u2.ID, FollowingID: u3.ID})
	require.NoError(t, err)

	p1 := createPost(t, svc, u1.ID, "u1 post")
	p2 := createPost(t, svc, u2.ID, "u2 post")
	_, err = svc.Like(ctx, PostEdgeRequest{UserID: u2.ID, PostID: p1.ID})
	require.NoError(t, err)
	_, err = svc.Bookmark(ctx, PostEdgeRequest{UserID: u2.ID, PostID: p1.ID})
	require.NoError(t, err)
	_, err = svc.Like(ctx, PostEdgeRequest{UserID: u1.ID, PostID: p2.ID})
	require.NoError(t, err)

	parent := p1.ID
	_, err = svc.CreatePost(ctx, CreatePostRequest{UserID: u2.ID, Content: "reply", ParentPostID: &parent})
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloadPost(t, svc, p1.ID).ReplyCount)

	require.NoError(t, svc.DeleteUser(ctx, u2.ID))

	assert.EqualValues(t, 0, reloadUser(t, svc, u1.ID).FollowingCount)
	assert.EqualValues(t, 0, reloadUser(t, svc, u3.ID).FollowerCount)

	post := reloadPost(t, svc, p1.ID)
	assert.EqualValues(t, 0, post.LikeCount)
	assert.EqualValues(t, 0, post.BookmarkCount)
	assert.EqualValues(t, 0, post.ReplyCount)

	_, err = svc.GetPost(ctx, p2.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	_, err = svc.GetUser(ctx, u2.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	assert.Zero(t, countRows(t, db, &models.Like{}, "1 = 1"))
	assert.Zero(t, countRows(t, db, &models.Follow{}, "1 = 1"))
	assertInvariants(t, svc)

	err = svc.DeleteUser(ctx, u2.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestPostLifecycleCounters(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	original := createPost(t, svc, alice.ID, "original")
	parent := original.ID
	reply, err := svc.CreatePost(ctx, CreatePostRequest{UserID: bob.ID, Content: "reply", ParentPostID: &parent})
	require.NoError(t, err)
	repost, err := svc.CreatePost(ctx, CreatePostRequest{UserID: bob.ID, Content: "repost", RepostID: &parent})
	require.NoError(t, err)

	assert.EqualValues(t, 1, reloadUser(t, svc, alice.ID).PostCount)
	assert.EqualValues(t, 2, reloadUser(t, svc, bob.ID).PostCount)
	assert.EqualValues(t, 1, reloadPost(t, svc, original.ID).ReplyCount)
	assert.EqualValues(t, 1, reloadPost(t, svc, original.ID).RepostCount)
	assertInvariants(t, svc)

	err = svc.DeletePost(ctx, DeletePostRequest{PostID: reply.ID, RequesterID: alice.ID})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	require.NoError(t, svc.DeletePost(ctx, DeletePostRequest{PostID: reply.ID, RequesterID: bob.ID}))
	require.NoError(t, svc.DeletePost(ctx, DeletePostRequest{PostID: repost.ID, RequesterID: bob.ID}))
	assert.EqualValues(t, 0, reloadPost(t, svc, original.ID).ReplyCount)
	assert.EqualValues(t, 0, reloadPost(t, svc, original.ID).RepostCount)
	assert.EqualValues(t, 0, reloadUser(t, svc, bob.ID).PostCount)
	assertInvariants(t, svc)

	missing := "missing"
	_, err = svc.CreatePost(ctx, CreatePostRequest{UserID: bob.ID, Content: "orphan", ParentPostID: &missing})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.CreatePost(ctx, CreatePostRequest{UserID: bob.ID, Content: "   "})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestDeletePostRemovesItsEdges(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, svc, alice.ID, "short lived")

	_, err := svc.Like(ctx, PostEdgeRequest{UserID: bob.ID, PostID: post.ID})
	require.NoError(t, err)
	_, err = svc.Bookmark(ctx, PostEdgeRequest{UserID: bob.ID, PostID: post.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, DeletePostRequest{PostID: post.ID, RequesterID: alice.ID}))

	assert.Zero(t, countRows(t, db, &models.Like{}, "post_id = ?", post.ID))
	assert.Zero(t, countRows(t, db, &models.Bookmark{}, "post_id = ?", post.ID))
	assert.NoError(t, svc.Unlike(ctx, PostEdgeRequest{UserID: bob.ID, PostID: post.ID}))
	assertInvariants(t, svc)
}

func TestListBookmarksNewestFirst(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	older := createPost(t, svc, bob.ID, "older")
	newer := createPost(t, svc, bob.ID, "newer")

	_, err := svc.Bookmark(ctx, PostEdgeRequest{UserID: alice.ID, PostID: newer.ID})
	require.NoError(t, err)
	_, err = svc.Bookmark(ctx, PostEdgeRequest{UserID: alice.ID, PostID: older.ID})
	require.NoError(t, err)

	bookmarks, err := svc.ListBookmarks(ctx, ListRequest{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{older.ID, newer.ID}, postIDs(bookmarks))
	assert.EqualValues(t, 1, bookmarks[0].BookmarkCount)
}

func TestRecountRepairsDrift(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	_, err := svc.Follow(ctx, FollowRequest{FollowerID: alice.ID, FollowingID: bob.ID})
	require.NoError(t, err)

	require.NoError(t, db.Exec("UPDATE users SET follower_count = 42 WHERE id = ?", bob.ID).Error)

	repaired, err := svc.RecountCounters(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, repaired)
	assert.EqualValues(t, 1, reloadUser(t, svc, bob.ID).FollowerCount)
}

func TestEventsFollowCommittedChanges(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, db := setupService(t, WithPublisher(publisher))
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	req := FollowRequest{FollowerID: alice.ID, FollowingID: bob.ID}

	_, err := svc.Follow(ctx, req)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, req)
	require.Error(t, err)
	require.NoError(t, svc.Unfollow(ctx, req))
	require.NoError(t, svc.Unfollow(ctx, req))

	post := createPost(t, svc, bob.ID, "hi")
	_, err = svc.Like(ctx, PostEdgeRequest{UserID: alice.ID, PostID: post.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{
		events.FollowCreated,
		events.FollowDeleted,
		events.PostCreated,
		events.LikeCreated,
	}, publisher.subjects())

	like := publisher.events[3]
	assert.Equal(t, alice.ID, like.ActorID)
	assert.Equal(t, bob.ID, like.TargetUserID)
	assert.Equal(t, post.ID, like.PostID)
}

func TestApplyDeltasMergesAndChecksRows(t *testing.T) {
	svc, db := setupService(t)
	alice := createUser(t, db, "alice")

	err := db.Transaction(func(tx *gorm.DB) error {
		return applyDeltas(tx, []counterDelta{
			{table: "users", id: alice.ID, column: "post_count", delta: 1},
			{table: "users", id: alice.ID, column: "post_count", delta: 2},
			{table: "posts", id: "gone", column: "reply_count", delta: 1, optional: true},
		})
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, reloadUser(t, svc, alice.ID).PostCount)

	err = db.Transaction(func(tx *gorm.DB) error {
		return applyDeltas(tx, []counterDelta{
			{table: "users", id: alice.ID, column: "post_count", delta: -3},
			{table: "users", id: "gone", column: "follower_count", delta: 1},
		})
	})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	assert.EqualValues(t, 3, reloadUser(t, svc, alice.ID).PostCount, "failed transaction must roll back")
}
