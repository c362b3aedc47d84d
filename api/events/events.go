package events

import (
	"context"
	"time"
)

const (
	FollowCreated   = "engagement.follow.created"
	FollowDeleted   = "engagement.follow.deleted"
	LikeCreated     = "engagement.like.created"
	LikeDeleted     = "engagement.like.deleted"
	BookmarkCreated = "engagement.bookmark.created"
	BookmarkDeleted = "engagement.bookmark.deleted"
	PostCreated     = "engagement.post.created"
	PostDeleted     = "engagement.post.deleted"
	UserDeleted     = "engagement.user.deleted"
	MessageCreated  = "engagement.message.created"

	// Wildcard matching every subject above.
	AllEngagement = "engagement.>"
)

// EngagementEvent describes a committed change to the engagement graph.
type EngagementEvent struct {
	Subject string `json:"subject"`
	// ActorID is the user who performed the change.
	ActorID string `json:"actor_id"`
	// TargetUserID is the followed user, or the author of PostID.
	TargetUserID string    `json:"target_user_id,omitempty"`
	PostID       string    `json:"post_id,omitempty"`
	ParentPostID string    `json:"parent_post_id,omitempty"`
	RepostID     string    `json:"repost_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher delivers events after the transaction that produced them has committed.
type Publisher interface {
	Publish(ctx context.Context, event EngagementEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EngagementEvent) error { return nil }
