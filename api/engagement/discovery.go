package engagement

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/cache"
	"github.com/rafa-porto/dev-connect/api/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SearchPosts    = "posts"
	SearchUsers    = "users"
	SearchHashtags = "hashtags"

	MaxSearchQueryLength = 100

	trendingTTL = 60 * time.Second
)

// SearchRequest looks Query up in post content, usernames and hashtags. An empty Type
// searches all three; otherwise only the named kind is searched. Limit defaults to 20 and is
// capped at 50, per kind.
type SearchRequest struct {
	Query  string `json:"query"`
	Type   string `json:"type"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (r SearchRequest) Normalize() (SearchRequest, error) {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return r, apperrors.NewValidation("query", "required")
	}
	if utf8.RuneCountInString(r.Query) > MaxSearchQueryLength {
		return r, apperrors.NewValidation("query", "should be at most 100 characters")
	}
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	switch r.Type {
	case "", SearchPosts, SearchUsers, SearchHashtags:
	default:
		return r, apperrors.NewValidation("type", "must be posts, users or hashtags")
	}
	limit, offset, err := normalizePage(r.Limit, r.Offset, DefaultSearchLimit, MaxSearchLimit)
	r.Limit, r.Offset = limit, offset
	return r, err
}

func (r SearchRequest) wants(kind string) bool {
	return r.Type == "" || r.Type == kind
}

// SearchResults holds one page per searched kind. Kinds that were not searched stay empty.
type SearchResults struct {
	Posts    []models.Post    `json:"posts"`
	Users    []models.User    `json:"users"`
	Hashtags []models.Hashtag `json:"hashtags"`
}

// Search matches req.Query case-insensitively. Posts come newest first, users most followed
// first and hashtags by trending score.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResults, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	results := &SearchResults{
		Posts:    []models.Post{},
		Users:    []models.User{},
		Hashtags: []models.Hashtag{},
	}
	g, gctx := errgroup.WithContext(ctx)
	if req.wants(SearchPosts) {
		g.Go(func() (err error) {
			results.Posts, err = s.posts.SearchPosts(gctx, req.Query, req.Limit, req.Offset)
			return err
		})
	}
	if req.wants(SearchUsers) {
		g.Go(func() (err error) {
			results.Users, err = s.posts.SearchUsers(gctx, req.Query, req.Limit, req.Offset)
			return err
		})
	}
	if req.wants(SearchHashtags) {
		g.Go(func() (err error) {
			results.Hashtags, err = s.posts.SearchHashtags(gctx, req.Query, req.Limit, req.Offset)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.Classify("search", err)
	}
	return results, nil
}

// ListRecentPosts returns every post, newest first.
func (s *Service) ListRecentPosts(ctx context.Context, req RecentPostsRequest) ([]models.Post, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListRecent(ctx, req.Limit, req.Offset)
	return posts, apperrors.Classify("recent_posts", err)
}

// TrendingHashtags returns the top hashtags by trending score, cached for a minute.
func (s *Service) TrendingHashtags(ctx context.Context, req TrendingRequest) ([]models.Hashtag, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	key := cache.TrendingKey(req.Limit)
	var hashtags []models.Hashtag
	hit, err := s.cache.GetJSON(ctx, key, &hashtags)
	if err != nil {
		s.log.Warn("trending cache read failed", zap.Error(err))
	}
	if hit {
		return hashtags, nil
	}

	hashtags, err = models.FindTrendingHashtags(s.db.WithContext(ctx), req.Limit)
	if err != nil {
		return nil, apperrors.Classify("trending_hashtags", err)
	}
	if err := s.cache.SetJSON(ctx, key, hashtags, trendingTTL); err != nil {
		s.log.Warn("trending cache write failed", zap.Error(err))
	}
	return hashtags, nil
}

// ListNotifications returns req.UserID's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, req ListRequest) ([]models.Notification, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	notifications, err := models.FindUserNotifications(s.db.WithContext(ctx), req.UserID, req.Limit, req.Offset)
	return notifications, apperrors.Classify("list_notifications", err)
}
