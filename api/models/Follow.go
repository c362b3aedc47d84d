package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Follow struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	FollowerID  string    `gorm:"size:36;not null;uniqueIndex:idx_follows_unique;index:idx_follows_follower_created,priority:1;check:follows_no_self_follow,follower_id <> following_id" json:"follower_id"`
	FollowingID string    `gorm:"size:36;not null;uniqueIndex:idx_follows_unique;index:idx_follows_following_created,priority:1" json:"following_id"`
	CreatedAt   time.Time `gorm:"not null;index:idx_follows_following_created,priority:2;index:idx_follows_follower_created,priority:2" json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(f.ID) == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
