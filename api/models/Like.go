package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_unique;index" json:"user_id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_likes_unique;index" json:"post_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(l.ID) == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
