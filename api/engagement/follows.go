package engagement

import (
	"context"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/events"
	"github.com/rafa-porto/dev-connect/api/models"

	"gorm.io/gorm"
)

// Follow creates the edge follower -> following and bumps both users' counters.
// Errors: SelfReference, NotFound, AlreadyExists, Conflict.
func (s *Service) Follow(ctx context.Context, req FollowRequest) (*models.Follow, error) {
	if err := guardFollow(req); err != nil {
		s.observe("follow", "created", err)
		return nil, err
	}

	var follow *models.Follow
	err := s.transact(ctx, "follow", func(tx *gorm.DB) error {
		if err := requireUsers(tx, req.FollowerID, req.FollowingID); err != nil {
			return err
		}

		row, inserted, err := insertEdge(tx, EdgeFollow, req.FollowerID, req.FollowingID, s.now())
		if err != nil {
			return err
		}
		if !inserted {
			return alreadyExists(EdgeFollow)
		}
		if err := applyDeltas(tx, edgeDeltas(EdgeFollow, req.FollowerID, req.FollowingID, +1)); err != nil {
			return err
		}
		follow = row.(*models.Follow)
		return nil
	})
	s.observe("follow", "created", err)
	if err != nil {
		return nil, err
	}

	s.forgetFollowing(ctx, req.FollowerID)
	s.emit(ctx, events.EngagementEvent{
		Subject:      events.FollowCreated,
		ActorID:      req.FollowerID,
		TargetUserID: req.FollowingID,
	})
	return follow, nil
}

// Unfollow removes the edge if present. A missing edge is a successful no-op.
func (s *Service) Unfollow(ctx context.Context, req FollowRequest) error {
	if err := req.validate(); err != nil {
		return err
	}

	removed := false
	err := s.transact(ctx, "unfollow", func(tx *gorm.DB) error {
		ok, err := deleteEdge(tx, EdgeFollow, req.FollowerID, req.FollowingID)
		if err != nil || !ok {
			removed = false
			return err
		}
		removed = true
		return applyDeltas(tx, edgeDeltas(EdgeFollow, req.FollowerID, req.FollowingID, -1))
	})
	s.observe("unfollow", outcomeOf(removed, "removed"), err)
	if err != nil || !removed {
		return err
	}

	s.forgetFollowing(ctx, req.FollowerID)
	s.emit(ctx, events.EngagementEvent{
		Subject:      events.FollowDeleted,
		ActorID:      req.FollowerID,
		TargetUserID: req.FollowingID,
	})
	return nil
}

// ListFollowers returns the users following req.UserID, most recent follow first.
func (s *Service) ListFollowers(ctx context.Context, req ListRequest) ([]models.User, error) {
	return s.listFollows(ctx, req, true)
}

// ListFollowing returns the users req.UserID follows, most recent follow first.
func (s *Service) ListFollowing(ctx context.Context, req ListRequest) ([]models.User, error) {
	return s.listFollows(ctx, req, false)
}

func (s *Service) listFollows(ctx context.Context, req ListRequest, followers bool) ([]models.User, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := requireUser(db, req.UserID); err != nil {
		return nil, apperrors.Classify("list_follows", err)
	}
	users, err := listFollowUsers(db, req.UserID, followers, req.Limit, req.Offset)
	if err != nil {
		return nil, apperrors.Classify("list_follows", err)
	}
	return users, nil
}

// Relationship describes the follow edges between a viewer and a target in both directions.
type Relationship struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
	Mutual     bool `json:"mutual"`
}

func (s *Service) GetRelationship(ctx context.Context, viewerID, targetID string) (Relationship, error) {
	if viewerID == targetID {
		return Relationship{}, nil
	}
	following, err := s.EdgeExists(ctx, EdgeFollow, viewerID, targetID)
	if err != nil {
		return Relationship{}, err
	}
	followedBy, err := s.EdgeExists(ctx, EdgeFollow, targetID, viewerID)
	if err != nil {
		return Relationship{}, err
	}
	return Relationship{
		Following:  following,
		FollowedBy: followedBy,
		Mutual:     following && followedBy,
	}, nil
}

func outcomeOf(changed bool, verb string) string {
	if changed {
		return verb
	}
	return "noop"
}
