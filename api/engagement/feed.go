package engagement

import (
	"context"
	"time"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/cache"
	"github.com/rafa-porto/dev-connect/api/metrics"
	"github.com/rafa-porto/dev-connect/api/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetFeed returns posts by the viewer and everyone the viewer follows, newest first, with one
// offset/limit applied over the merged ordering. Pages past the end are empty.
func (s *Service) GetFeed(ctx context.Context, req FeedRequest) ([]models.Post, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.FeedAssembly.Observe(time.Since(start).Seconds()) }()

	var following []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return requireUser(s.db.WithContext(gctx), req.ViewerID)
	})
	g.Go(func() error {
		ids, err := s.followingSet(gctx, req.ViewerID)
		following = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Classify("feed", err)
	}

	authors := make([]string, 0, len(following)+1)
	authors = append(authors, req.ViewerID)
	for _, id := range following {
		if id != req.ViewerID {
			authors = append(authors, id)
		}
	}

	posts, err := s.posts.ListByAuthors(ctx, authors, req.Limit, req.Offset)
	if err != nil {
		return nil, apperrors.Classify("feed", err)
	}
	return posts, nil
}

// followingEntry is a cached following set and the generation it was read under.
type followingEntry struct {
	Generation int64    `json:"generation"`
	IDs        []string `json:"ids"`
}

// followingSet returns every user id userID follows, served from redis when possible. The
// generation is read before the database so a set read concurrently with a follow change is
// cached under the old generation and never served after that change commits.
func (s *Service) followingSet(ctx context.Context, userID string) ([]string, error) {
	if !s.cache.Enabled() {
		return followingIDs(s.db.WithContext(ctx), userID)
	}

	key := cache.FollowingKey(userID)
	gen, err := s.cache.Generation(ctx, cache.FollowingGenerationKey(userID))
	if err != nil {
		metrics.FollowingCacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("following generation read failed", zap.String("user_id", userID), zap.Error(err))
		return followingIDs(s.db.WithContext(ctx), userID)
	}

	var entry followingEntry
	hit, err := s.cache.GetJSON(ctx, key, &entry)
	switch {
	case err != nil:
		metrics.FollowingCacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("following cache read failed", zap.String("user_id", userID), zap.Error(err))
	case hit && entry.Generation == gen:
		metrics.FollowingCacheLookups.WithLabelValues("hit").Inc()
		return entry.IDs, nil
	case hit:
		metrics.FollowingCacheLookups.WithLabelValues("stale").Inc()
	default:
		metrics.FollowingCacheLookups.WithLabelValues("miss").Inc()
	}

	ids, err := followingIDs(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	entry = followingEntry{Generation: gen, IDs: ids}
	if err := s.cache.SetJSON(ctx, key, entry, s.followingTTL); err != nil {
		s.log.Warn("following cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return ids, nil
}
