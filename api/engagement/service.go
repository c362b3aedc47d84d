package engagement

import (
	"context"
	"time"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/cache"
	"github.com/rafa-porto/dev-connect/api/events"
	applog "github.com/rafa-porto/dev-connect/api/logger"
	"github.com/rafa-porto/dev-connect/api/metrics"
	"github.com/rafa-porto/dev-connect/api/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostReader is the read side of storage used by the feed, the post listings and search.
type PostReader interface {
	ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]models.Post, error)
	ListBookmarked(ctx context.Context, userID string, limit, offset int) ([]models.Post, error)
	ListRecent(ctx context.Context, limit, offset int) ([]models.Post, error)
	SearchPosts(ctx context.Context, term string, limit, offset int) ([]models.Post, error)
	SearchUsers(ctx context.Context, term string, limit, offset int) ([]models.User, error)
	SearchHashtags(ctx context.Context, term string, limit, offset int) ([]models.Hashtag, error)
}

// Service owns every mutation of the engagement graph and the counters derived from it.
// It holds no mutable state between calls; all state lives in the database.
type Service struct {
	db           *gorm.DB
	posts        PostReader
	cache        *cache.Store
	publisher    events.Publisher
	log          *zap.Logger
	now          func() time.Time
	maxAttempts  int
	followingTTL time.Duration
}

type Option func(*Service)

func WithCache(store *cache.Store) Option {
	return func(s *Service) { s.cache = store }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the source of edge and post timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxAttempts bounds how many times a transaction aborted by contention is run.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithFollowingTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.followingTTL = ttl
		}
	}
}

func NewService(db *gorm.DB, posts PostReader, opts ...Option) *Service {
	s := &Service{
		db:           db,
		posts:        posts,
		cache:        cache.New(nil),
		publisher:    events.NopPublisher{},
		log:          applog.Named("engagement"),
		now:          func() time.Time { return time.Now().UTC() },
		maxAttempts:  3,
		followingTTL: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle for collaborators that share the service's storage.
func (s *Service) DB() *gorm.DB {
	return s.db
}

// transact runs fn in one transaction. Storage errors are mapped onto the error taxonomy;
// contention aborts are retried with a short backoff until maxAttempts is reached.
func (s *Service) transact(ctx context.Context, operation string, fn func(tx *gorm.DB) error) error {
	for attempt := 1; ; attempt++ {
		err := apperrors.Classify(operation, s.db.WithContext(ctx).Transaction(fn))
		if err == nil || !apperrors.IsRetryable(err) || attempt >= s.maxAttempts {
			return err
		}

		metrics.ConflictRetries.WithLabelValues(operation).Inc()
		s.log.Debug("retrying transaction after conflict",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		timer := time.NewTimer(time.Duration(attempt*attempt) * 10 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return apperrors.NewConflict(operation, ctx.Err())
		case <-timer.C:
		}
	}
}

// observe records the outcome of a mutation.
func (s *Service) observe(operation, success string, err error) {
	outcome := success
	if err != nil {
		outcome = string(apperrors.TypeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	metrics.Mutations.WithLabelValues(operation, outcome).Inc()
}

// emit publishes an event for a committed change. Delivery failures are logged and never
// undo the change.
func (s *Service) emit(ctx context.Context, event events.EngagementEvent) {
	event.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish engagement event",
			zap.String("subject", event.Subject),
			zap.Error(err),
		)
	}
}

// forgetFollowing advances the following generation of each user after the transaction that
// changed their following set committed, then drops the cached sets. Entries written by readers
// that started before the change carry the old generation and are ignored.
func (s *Service) forgetFollowing(ctx context.Context, userIDs ...string) {
	if !s.cache.Enabled() || len(userIDs) == 0 {
		return
	}
	gens := make([]string, len(userIDs))
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		gens[i] = cache.FollowingGenerationKey(id)
		keys[i] = cache.FollowingKey(id)
	}
	if err := s.cache.Bump(ctx, gens...); err != nil {
		s.log.Warn("failed to advance following generation", zap.Strings("users", userIDs), zap.Error(err))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate following cache", zap.Strings("users", userIDs), zap.Error(err))
	}
}
