package engagement

import (
	"context"
	"errors"
	"strings"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/events"
	"github.com/rafa-porto/dev-connect/api/models"

	"gorm.io/gorm"
)

// CreatePost stores a post and bumps the author's post_count, plus the parent's reply_count
// for a reply or the original's repost_count for a repost.
func (s *Service) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	post := models.Post{
		UserID:       strings.TrimSpace(req.UserID),
		Content:      req.Content,
		ParentPostID: emptyToNil(req.ParentPostID),
		RepostID:     emptyToNil(req.RepostID),
	}
	post.Prepare()
	if msgs := post.Validate(); len(msgs) > 0 {
		err := firstValidationError(msgs)
		s.observe("create_post", "created", err)
		return nil, err
	}

	var referencedAuthor string
	err := s.transact(ctx, "create_post", func(tx *gorm.DB) error {
		referencedAuthor = ""
		if err := requireUser(tx, post.UserID); err != nil {
			return err
		}
		for _, ref := range []*string{post.ParentPostID, post.RepostID} {
			if ref == nil {
				continue
			}
			target, err := requirePost(tx, *ref)
			if err != nil {
				return err
			}
			referencedAuthor = target.UserID
		}

		row := post
		row.ID = ""
		row.CreatedAt = s.now()
		row.UpdatedAt = row.CreatedAt
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := applyDeltas(tx, postDeltas(row.UserID, row.ParentPostID, row.RepostID, +1)); err != nil {
			return err
		}
		post = row
		return nil
	})
	s.observe("create_post", "created", err)
	if err != nil {
		return nil, err
	}

	event := events.EngagementEvent{
		Subject:      events.PostCreated,
		ActorID:      post.UserID,
		PostID:       post.ID,
		TargetUserID: referencedAuthor,
	}
	if post.ParentPostID != nil {
		event.ParentPostID = *post.ParentPostID
	}
	if post.RepostID != nil {
		event.RepostID = *post.RepostID
	}
	s.emit(ctx, event)
	return &post, nil
}

func (s *Service) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Where("id = ?", postID).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("post", postID)
	}
	if err != nil {
		return nil, apperrors.Classify("get_post", err)
	}
	return &post, nil
}

// ListUserPosts returns req.UserID's own posts, newest first.
func (s *Service) ListUserPosts(ctx context.Context, req ListRequest) ([]models.Post, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	if err := requireUser(s.db.WithContext(ctx), req.UserID); err != nil {
		return nil, apperrors.Classify("list_posts", err)
	}
	posts, err := s.posts.ListByAuthors(ctx, []string{req.UserID}, req.Limit, req.Offset)
	return posts, apperrors.Classify("list_posts", err)
}

func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	_, err := user.FindUserByID(s.db.WithContext(ctx), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("user", userID)
	}
	if err != nil {
		return nil, apperrors.Classify("get_user", err)
	}
	return &user, nil
}

func emptyToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// firstValidationError turns a model's validation messages into a typed error, picking the
// alphabetically first key so the result is stable.
func firstValidationError(msgs map[string]string) error {
	first := ""
	for key := range msgs {
		if first == "" || key < first {
			first = key
		}
	}
	field := strings.ToLower(first[strings.Index(first, "_")+1:])
	return apperrors.NewValidation(field, msgs[first])
}
