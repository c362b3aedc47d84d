package engagement

import (
	"strings"

	"github.com/rafa-porto/dev-connect/api/apperrors"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 50

	DefaultListLimit = 20
	MaxListLimit     = 100

	DefaultTrendingLimit = 10
	MaxTrendingLimit     = 50

	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// FollowRequest identifies a directed follow edge. Used by Follow and Unfollow.
type FollowRequest struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

func (r FollowRequest) validate() error {
	if strings.TrimSpace(r.FollowerID) == "" {
		return apperrors.NewValidation("follower_id", "required")
	}
	if strings.TrimSpace(r.FollowingID) == "" {
		return apperrors.NewValidation("following_id", "required")
	}
	return nil
}

// PostEdgeRequest identifies a (user, post) edge. Used by Like, Unlike, Bookmark and RemoveBookmark.
type PostEdgeRequest struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
}

func (r PostEdgeRequest) validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return apperrors.NewValidation("user_id", "required")
	}
	if strings.TrimSpace(r.PostID) == "" {
		return apperrors.NewValidation("post_id", "required")
	}
	return nil
}

// ListRequest pages through a per-user list. Limit defaults to 20 and is capped at 100;
// Offset defaults to 0 and must not be negative.
type ListRequest struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// Normalize validates the request and applies the default and maximum page size. Handlers
// call it to learn the page they are answering; the service applies it again.
func (r ListRequest) Normalize() (ListRequest, error) {
	if strings.TrimSpace(r.UserID) == "" {
		return r, apperrors.NewValidation("user_id", "required")
	}
	limit, offset, err := normalizePage(r.Limit, r.Offset, DefaultListLimit, MaxListLimit)
	r.Limit, r.Offset = limit, offset
	return r, err
}

// FeedRequest pages through a viewer's feed. Limit defaults to 20 and is capped at 50;
// Offset defaults to 0 and must not be negative.
type FeedRequest struct {
	ViewerID string `json:"viewer_id"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

func (r FeedRequest) Normalize() (FeedRequest, error) {
	if strings.TrimSpace(r.ViewerID) == "" {
		return r, apperrors.NewValidation("viewer_id", "required")
	}
	limit, offset, err := normalizePage(r.Limit, r.Offset, DefaultFeedLimit, MaxFeedLimit)
	r.Limit, r.Offset = limit, offset
	return r, err
}

// RecentPostsRequest pages through every post. Limit defaults to 20 and is capped at 100.
type RecentPostsRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (r RecentPostsRequest) Normalize() (RecentPostsRequest, error) {
	limit, offset, err := normalizePage(r.Limit, r.Offset, DefaultListLimit, MaxListLimit)
	r.Limit, r.Offset = limit, offset
	return r, err
}

// TrendingRequest asks for the top hashtags. Limit defaults to 10 and is capped at 50.
type TrendingRequest struct {
	Limit int `json:"limit"`
}

func (r TrendingRequest) Normalize() (TrendingRequest, error) {
	limit, _, err := normalizePage(r.Limit, 0, DefaultTrendingLimit, MaxTrendingLimit)
	r.Limit = limit
	return r, err
}

// CreatePostRequest carries a new post. ParentPostID marks a reply and RepostID a repost;
// at most one of them may be set.
type CreatePostRequest struct {
	UserID       string  `json:"user_id"`
	Content      string  `json:"content"`
	ParentPostID *string `json:"parent_post_id,omitempty"`
	RepostID     *string `json:"repost_id,omitempty"`
}

// DeletePostRequest deletes PostID on behalf of RequesterID, who must be its author.
type DeletePostRequest struct {
	PostID      string `json:"post_id"`
	RequesterID string `json:"requester_id"`
}

func (r DeletePostRequest) validate() error {
	if strings.TrimSpace(r.PostID) == "" {
		return apperrors.NewValidation("post_id", "required")
	}
	if strings.TrimSpace(r.RequesterID) == "" {
		return apperrors.NewValidation("requester_id", "required")
	}
	return nil
}

func normalizePage(limit, offset, defaultLimit, maxLimit int) (int, int, error) {
	if offset < 0 {
		return limit, offset, apperrors.NewValidation("offset", "must not be negative")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, offset, nil
}
