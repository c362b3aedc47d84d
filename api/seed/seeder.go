package seed

import (
	"context"
	"fmt"

	"github.com/rafa-porto/dev-connect/api/engagement"
	applog "github.com/rafa-porto/dev-connect/api/logger"
	"github.com/rafa-porto/dev-connect/api/models"

	"go.uber.org/zap"
)

var users = []engagement.CreateUserRequest{
	{Username: "steven", Email: "steven@example.com", Name: "Steven", Bio: "Backend, mostly Go."},
	{Username: "martin", Email: "martin@example.com", Name: "Martin", Bio: "Frontend and design systems."},
	{Username: "grace", Email: "grace@example.com", Name: "Grace", Bio: "Compilers and coffee."},
}

// posts are indexed by author position in users.
var posts = []struct {
	author  int
	content string
}{
	{0, "Shipped the new feed today. #golang"},
	{1, "Hot take: CSS grid solved layout. #frontend"},
	{2, "Reading about SSA form again. #compilers #golang"},
	{0, "Counters are just edges you forgot to count."},
}

// follows are [follower, following] pairs of user positions.
var follows = [][2]int{{0, 1}, {0, 2}, {1, 0}, {2, 0}}

// likes are [user, post] pairs of positions.
var likes = [][2]int{{1, 0}, {2, 0}, {0, 2}}

var hashtags = []models.Hashtag{
	{Tag: "golang", PostCount: 2, TrendingScore: 8.5},
	{Tag: "frontend", PostCount: 1, TrendingScore: 3},
	{Tag: "compilers", PostCount: 1, TrendingScore: 1.5},
}

// Load fills an empty database with a small demo graph. It does nothing once any user exists.
func Load(ctx context.Context, svc *engagement.Service) error {
	log := applog.Named("seed")

	var existing int64
	if err := svc.DB().WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		log.Info("database already has users, skipping demo seed", zap.Int64("users", existing))
		return nil
	}

	userIDs := make([]string, len(users))
	for i, req := range users {
		user, err := svc.CreateUser(ctx, req)
		if err != nil {
			return fmt.Errorf("cannot seed user %s: %w", req.Username, err)
		}
		userIDs[i] = user.ID
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		post, err := svc.CreatePost(ctx, engagement.CreatePostRequest{UserID: userIDs[p.author], Content: p.content})
		if err != nil {
			return fmt.Errorf("cannot seed post: %w", err)
		}
		postIDs[i] = post.ID
	}

	for _, f := range follows {
		if _, err := svc.Follow(ctx, engagement.FollowRequest{FollowerID: userIDs[f[0]], FollowingID: userIDs[f[1]]}); err != nil {
			return fmt.Errorf("cannot seed follow: %w", err)
		}
	}
	for _, l := range likes {
		if _, err := svc.Like(ctx, engagement.PostEdgeRequest{UserID: userIDs[l[0]], PostID: postIDs[l[1]]}); err != nil {
			return fmt.Errorf("cannot seed like: %w", err)
		}
	}

	tags := make([]models.Hashtag, len(hashtags))
	copy(tags, hashtags)
	if err := svc.DB().WithContext(ctx).Create(&tags).Error; err != nil {
		return fmt.Errorf("cannot seed hashtags: %w", err)
	}

	log.Info("seeded demo data",
		zap.Int("users", len(userIDs)),
		zap.Int("posts", len(postIDs)),
		zap.Int("follows", len(follows)),
		zap.Int("likes", len(likes)),
	)
	return nil
}
