package engagement

import (
	"errors"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/models"

	"gorm.io/gorm"
)

// The guard's reads run on the caller's transaction so the decision and the mutation that
// follows it see the same rows.

func requireUser(tx *gorm.DB, userID string) error {
	var user models.User
	err := tx.Select("id").Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFound("user", userID)
	}
	return err
}

func requireUsers(tx *gorm.DB, userIDs ...string) error {
	for _, id := range userIDs {
		if err := requireUser(tx, id); err != nil {
			return err
		}
	}
	return nil
}

// requirePost returns the post's id and author.
func requirePost(tx *gorm.DB, postID string) (*models.Post, error) {
	var post models.Post
	err := tx.Select("id", "user_id").Where("id = ?", postID).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("post", postID)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// guardFollow checks a follow before any storage access. A self-follow is rejected before
// existence is checked, so follow(a, a) is SelfReference even when a does not exist.
func guardFollow(req FollowRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	if req.FollowerID == req.FollowingID {
		return apperrors.NewSelfReference(req.FollowerID)
	}
	return nil
}

func alreadyExists(kind EdgeKind) error {
	switch kind {
	case EdgeFollow:
		return apperrors.NewAlreadyExists(string(kind), "already following user")
	case EdgeLike:
		return apperrors.NewAlreadyExists(string(kind), "post already liked")
	default:
		return apperrors.NewAlreadyExists(string(kind), "post already bookmarked")
	}
}
