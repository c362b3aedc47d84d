package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationReply   NotificationType = "reply"
	NotificationFollow  NotificationType = "follow"
	NotificationRepost  NotificationType = "repost"
	NotificationMention NotificationType = "mention"
	NotificationMessage NotificationType = "message"
)

type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	ActorID   string           `gorm:"size:36;not null;index" json:"actor_id"`
	Type      NotificationType `gorm:"size:20;not null" json:"type"`
	PostID    *string          `gorm:"size:36;index" json:"post_id,omitempty"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `gorm:"not null;index:idx_notifications_user_created,priority:2" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(n.ID) == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

func (n *Notification) SaveNotification(db *gorm.DB) (*Notification, error) {
	if err := db.Create(n).Error; err != nil {
		return &Notification{}, err
	}
	return n, nil
}

func FindUserNotifications(db *gorm.DB, userID string, limit, offset int) ([]Notification, error) {
	notifications := []Notification{}
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flags a notification as read; only its owner may do so.
func MarkNotificationRead(db *gorm.DB, notificationID, userID string) error {
	result := db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
