package controllers

type ErrorResponse struct {
	Error     string `json:"error"`
	Type      string `json:"type,omitempty"`
	Retryable *bool  `json:"retryable,omitempty"`
}

type SimpleMessageResponse struct {
	Status   int    `json:"status"`
	Response string `json:"response"`
}

type CreateUserBody struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// UpdateUserBody carries a partial profile update. Omitted fields are unchanged and an empty
// string clears a field.
type UpdateUserBody struct {
	Name         *string `json:"name,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	BannerURL    *string `json:"banner_url,omitempty"`
	Location     *string `json:"location,omitempty"`
	Website      *string `json:"website,omitempty"`
	GithubURL    *string `json:"github_url,omitempty"`
	PortfolioURL *string `json:"portfolio_url,omitempty"`
}

type CreateProjectBody struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	TechStack   []string `json:"tech_stack,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	GithubURL   string   `json:"github_url,omitempty"`
	LiveURL     string   `json:"live_url,omitempty"`
	IsFeatured  bool     `json:"is_featured,omitempty"`
}

type CreatePostBody struct {
	Content      string  `json:"content" binding:"required"`
	ParentPostID *string `json:"parent_post_id,omitempty"`
	RepostID     *string `json:"repost_id,omitempty"`
}

type SendMessageBody struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type UserEnvelope struct {
	Status   int     `json:"status"`
	Response UserDTO `json:"response"`
}

type UserListEnvelope struct {
	Status     int          `json:"status"`
	Response   []UserDTO    `json:"response"`
	Pagination PageResponse `json:"pagination"`
}

type PostEnvelope struct {
	Status   int     `json:"status"`
	Response PostDTO `json:"response"`
}

type PostListEnvelope struct {
	Status     int          `json:"status"`
	Response   []PostDTO    `json:"response"`
	Pagination PageResponse `json:"pagination"`
}

type EdgeEnvelope struct {
	Status   int     `json:"status"`
	Response EdgeDTO `json:"response"`
}

type RelationshipEnvelope struct {
	Status   int             `json:"status"`
	Response RelationshipDTO `json:"response"`
}

type MessageEnvelope struct {
	Status   int        `json:"status"`
	Response MessageDTO `json:"response"`
}

type MessageListEnvelope struct {
	Status     int          `json:"status"`
	Response   []MessageDTO `json:"response"`
	Pagination PageResponse `json:"pagination"`
}

type NotificationListEnvelope struct {
	Status     int               `json:"status"`
	Response   []NotificationDTO `json:"response"`
	Pagination PageResponse      `json:"pagination"`
}

type HashtagListEnvelope struct {
	Status   int          `json:"status"`
	Response []HashtagDTO `json:"response"`
}

type RecountEnvelope struct {
	Status   int   `json:"status"`
	Repaired int64 `json:"repaired"`
}

type ProjectEnvelope struct {
	Status   int        `json:"status"`
	Response ProjectDTO `json:"response"`
}

type ProjectListEnvelope struct {
	Status   int          `json:"status"`
	Response []ProjectDTO `json:"response"`
}

type SearchEnvelope struct {
	Status     int              `json:"status"`
	Response   SearchResultsDTO `json:"response"`
	Pagination PageResponse     `json:"pagination"`
}
