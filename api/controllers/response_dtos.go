package controllers

import "time"

type UserDTO struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	BannerURL      string    `json:"banner_url"`
	Location       string    `json:"location"`
	Website        string    `json:"website"`
	GithubURL      string    `json:"github_url"`
	PortfolioURL   string    `json:"portfolio_url"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	PostCount      int64     `json:"post_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PostDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Content       string    `json:"content"`
	ParentPostID  *string   `json:"parent_post_id,omitempty"`
	RepostID      *string   `json:"repost_id,omitempty"`
	LikeCount     int64     `json:"like_count"`
	BookmarkCount int64     `json:"bookmark_count"`
	ReplyCount    int64     `json:"reply_count"`
	RepostCount   int64     `json:"repost_count"`
	ViewCount     int64     `json:"view_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// EdgeDTO describes a follow, like or bookmark. Source is the acting user and Target the
// followed user or the post.
type EdgeDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	SourceID  string    `json:"source_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RelationshipDTO struct {
	UserID     string `json:"user_id"`
	Following  bool   `json:"following"`
	FollowedBy bool   `json:"followed_by"`
	Mutual     bool   `json:"mutual"`
}

type MessageDTO struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationDTO struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Type      string    `json:"type"`
	PostID    *string   `json:"post_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type HashtagDTO struct {
	Tag           string  `json:"tag"`
	PostCount     int64   `json:"post_count"`
	TrendingScore float64 `json:"trending_score"`
}

type ProjectDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"tech_stack"`
	ImageURLs   []string  `json:"image_urls"`
	GithubURL   string    `json:"github_url"`
	LiveURL     string    `json:"live_url"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SearchResultsDTO struct {
	Posts    []PostDTO    `json:"posts"`
	Users    []UserDTO    `json:"users"`
	Hashtags []HashtagDTO `json:"hashtags"`
}
