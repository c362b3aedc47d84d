package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bookmark struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_bookmarks_unique;index:idx_bookmarks_user_created,priority:1" json:"user_id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_bookmarks_unique;index" json:"post_id"`
	CreatedAt time.Time `gorm:"not null;index:idx_bookmarks_user_created,priority:2" json:"created_at"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(b.ID) == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
