package engagement

import (
	"context"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/events"
	"github.com/rafa-porto/dev-connect/api/models"

	"gorm.io/gorm"
)

var postEdgeSubjects = map[EdgeKind][2]string{
	EdgeLike:     {events.LikeCreated, events.LikeDeleted},
	EdgeBookmark: {events.BookmarkCreated, events.BookmarkDeleted},
}

// Like records that req.UserID likes req.PostID. Errors: NotFound, AlreadyExists, Conflict.
func (s *Service) Like(ctx context.Context, req PostEdgeRequest) (*models.Like, error) {
	row, err := s.createPostEdge(ctx, EdgeLike, req)
	if err != nil {
		return nil, err
	}
	return row.(*models.Like), nil
}

// Unlike removes the like if present. A missing like is a successful no-op.
func (s *Service) Unlike(ctx context.Context, req PostEdgeRequest) error {
	return s.destroyPostEdge(ctx, EdgeLike, req)
}

// Bookmark records that req.UserID bookmarked req.PostID. Errors: NotFound, AlreadyExists, Conflict.
func (s *Service) Bookmark(ctx context.Context, req PostEdgeRequest) (*models.Bookmark, error) {
	row, err := s.createPostEdge(ctx, EdgeBookmark, req)
	if err != nil {
		return nil, err
	}
	return row.(*models.Bookmark), nil
}

// RemoveBookmark removes the bookmark if present. A missing bookmark is a successful no-op.
func (s *Service) RemoveBookmark(ctx context.Context, req PostEdgeRequest) error {
	return s.destroyPostEdge(ctx, EdgeBookmark, req)
}

// ListBookmarks returns the posts req.UserID bookmarked, most recent bookmark first.
func (s *Service) ListBookmarks(ctx context.Context, req ListRequest) ([]models.Post, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if err := requireUser(s.db.WithContext(ctx), req.UserID); err != nil {
		return nil, apperrors.Classify("list_bookmarks", err)
	}
	posts, err := s.posts.ListBookmarked(ctx, req.UserID, req.Limit, req.Offset)
	return posts, apperrors.Classify("list_bookmarks", err)
}

func (s *Service) createPostEdge(ctx context.Context, kind EdgeKind, req PostEdgeRequest) (interface{}, error) {
	operation := string(kind)
	if err := req.validate(); err != nil {
		s.observe(operation, "created", err)
		return nil, err
	}

	var (
		row      interface{}
		authorID string
	)
	err := s.transact(ctx, operation, func(tx *gorm.DB) error {
		if err := requireUser(tx, req.UserID); err != nil {
			return err
		}
		post, err := requirePost(tx, req.PostID)
		if err != nil {
			return err
		}

		inserted, ok, err := insertEdge(tx, kind, req.UserID, req.PostID, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return alreadyExists(kind)
		}
		if err := applyDeltas(tx, edgeDeltas(kind, req.UserID, req.PostID, +1)); err != nil {
			return err
		}
		row, authorID = inserted, post.UserID
		return nil
	})
	s.observe(operation, "created", err)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.EngagementEvent{
		Subject:      postEdgeSubjects[kind][0],
		ActorID:      req.UserID,
		TargetUserID: authorID,
		PostID:       req.PostID,
	})
	return row, nil
}

func (s *Service) destroyPostEdge(ctx context.Context, kind EdgeKind, req PostEdgeRequest) error {
	operation := "un" + string(kind)
	if err := req.validate(); err != nil {
		return err
	}

	removed := false
	err := s.transact(ctx, operation, func(tx *gorm.DB) error {
		ok, err := deleteEdge(tx, kind, req.UserID, req.PostID)
		if err != nil || !ok {
			removed = false
			return err
		}
		removed = true
		return applyDeltas(tx, edgeDeltas(kind, req.UserID, req.PostID, -1))
	})
	s.observe(operation, outcomeOf(removed, "removed"), err)
	if err != nil || !removed {
		return err
	}

	s.emit(ctx, events.EngagementEvent{
		Subject: postEdgeSubjects[kind][1],
		ActorID: req.UserID,
		PostID:  req.PostID,
	})
	return nil
}
