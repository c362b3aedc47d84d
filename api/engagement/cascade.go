package engagement

import (
	"context"
	"errors"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/events"
	"github.com/rafa-porto/dev-connect/api/models"

	"gorm.io/gorm"
)

// userCascade decrements the counters on the far side of every edge that references the
// user, then removes those edges. Each statement is a relative delta: a user has at most one
// edge to any given row, except replies and reposts, which are counted per row.
var userCascade = []string{
	`UPDATE users SET follower_count = follower_count - 1
		WHERE id IN (SELECT following_id FROM follows WHERE follower_id = @user)`,
	`UPDATE users SET following_count = following_count - 1
		WHERE id IN (SELECT follower_id FROM follows WHERE following_id = @user)`,
	`UPDATE posts SET like_count = like_count - 1
		WHERE id IN (SELECT post_id FROM likes WHERE user_id = @user)`,
	`UPDATE posts SET bookmark_count = bookmark_count - 1
		WHERE id IN (SELECT post_id FROM bookmarks WHERE user_id = @user)`,
	`UPDATE posts SET reply_count = reply_count -
		(SELECT COUNT(*) FROM posts AS r WHERE r.parent_post_id = posts.id AND r.user_id = @user)
		WHERE id IN (SELECT parent_post_id FROM posts WHERE user_id = @user AND parent_post_id IS NOT NULL)`,
	`UPDATE posts SET repost_count = repost_count -
		(SELECT COUNT(*) FROM posts AS r WHERE r.repost_id = posts.id AND r.user_id = @user)
		WHERE id IN (SELECT repost_id FROM posts WHERE user_id = @user AND repost_id IS NOT NULL)`,

	`DELETE FROM likes WHERE user_id = @user OR post_id IN (SELECT id FROM posts WHERE user_id = @user)`,
	`DELETE FROM bookmarks WHERE user_id = @user OR post_id IN (SELECT id FROM posts WHERE user_id = @user)`,
	`DELETE FROM notifications WHERE user_id = @user OR actor_id = @user
		OR post_id IN (SELECT id FROM posts WHERE user_id = @user)`,
	`DELETE FROM follows WHERE follower_id = @user OR following_id = @user`,
	`DELETE FROM messages WHERE sender_id = @user OR recipient_id = @user`,
	`DELETE FROM projects WHERE user_id = @user`,
	`DELETE FROM posts WHERE user_id = @user`,
}

// DeleteUser removes the user with all their posts and edges, keeping every counter on the
// other side of those edges exact.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	var followers []string
	err := s.transact(ctx, "delete_user", func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		// Everyone who followed the user has them in a cached following set.
		followers = followers[:0]
		if err := tx.Model(&models.Follow{}).
			Where("following_id = ?", userID).
			Pluck("follower_id", &followers).Error; err != nil {
			return err
		}

		for _, stmt := range userCascade {
			if err := tx.Exec(stmt, map[string]interface{}{"user": userID}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
	s.observe("delete_user", "removed", err)
	if err != nil {
		return err
	}

	s.forgetFollowing(ctx, append(followers, userID)...)
	s.emit(ctx, events.EngagementEvent{Subject: events.UserDeleted, ActorID: userID})
	return nil
}

// DeletePost removes a post owned by req.RequesterID together with its likes and bookmarks.
// A post owned by someone else is reported as NotFound.
func (s *Service) DeletePost(ctx context.Context, req DeletePostRequest) error {
	if err := req.validate(); err != nil {
		return err
	}

	err := s.transact(ctx, "delete_post", func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Where("id = ? AND user_id = ?", req.PostID, req.RequesterID).Take(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("post", req.PostID)
		}
		if err != nil {
			return err
		}

		// The post's own like and bookmark counters go away with the row.
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := applyDeltas(tx, postDeltas(post.UserID, post.ParentPostID, post.RepostID, -1)); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	s.observe("delete_post", "removed", err)
	if err != nil {
		return err
	}

	s.emit(ctx, events.EngagementEvent{
		Subject: events.PostDeleted,
		ActorID: req.RequesterID,
		PostID:  req.PostID,
	})
	return nil
}
