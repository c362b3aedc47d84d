package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxPostLength = 280

type Post struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id" db:"id"`
	UserID        string    `gorm:"size:36;not null;index:idx_posts_user_created,priority:1" json:"user_id" db:"user_id"`
	Content       string    `gorm:"size:280;not null" json:"content" db:"content"`
	ParentPostID  *string   `gorm:"size:36;index" json:"parent_post_id,omitempty" db:"parent_post_id"`
	RepostID      *string   `gorm:"size:36;index" json:"repost_id,omitempty" db:"repost_id"`
	LikeCount     int64     `gorm:"not null;default:0" json:"like_count" db:"like_count"`
	BookmarkCount int64     `gorm:"not null;default:0" json:"bookmark_count" db:"bookmark_count"`
	ReplyCount    int64     `gorm:"not null;default:0" json:"reply_count" db:"reply_count"`
	RepostCount   int64     `gorm:"not null;default:0" json:"repost_count" db:"repost_count"`
	ViewCount     int64     `gorm:"not null;default:0" json:"view_count" db:"view_count"`
	CreatedAt     time.Time `gorm:"not null;index;index:idx_posts_user_created,priority:2" json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at" db:"updated_at"`
}

// PostColumns lists the columns read by hand-written queries, in struct order.
var PostColumns = []string{
	"id", "user_id", "content", "parent_post_id", "repost_id",
	"like_count", "bookmark_count", "reply_count", "repost_count", "view_count",
	"created_at", "updated_at",
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Post) Prepare() {
	p.Content = strings.TrimSpace(p.Content)
	p.LikeCount = 0
	p.BookmarkCount = 0
	p.ReplyCount = 0
	p.RepostCount = 0
	p.ViewCount = 0
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.UserID == "" {
		errorMessages["Required_user"] = "Required User"
	}
	if p.Content == "" {
		errorMessages["Required_content"] = "Required Content"
	}
	if utf8.RuneCountInString(p.Content) > MaxPostLength {
		errorMessages["Invalid_content"] = "Content should be at most 280 characters"
	}
	if p.ParentPostID != nil && p.RepostID != nil {
		errorMessages["Invalid_reference"] = "A post cannot be both a reply and a repost"
	}
	return errorMessages
}
