package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxMessageLength = 1000

type Message struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SenderID    string    `gorm:"size:36;not null;index:idx_messages_pair,priority:1" json:"sender_id"`
	RecipientID string    `gorm:"size:36;not null;index:idx_messages_pair,priority:2;index" json:"recipient_id"`
	Content     string    `gorm:"size:1000;not null" json:"content"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `gorm:"not null;index:idx_messages_pair,priority:3" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(m.ID) == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *Message) Prepare() {
	m.Content = strings.TrimSpace(m.Content)
	m.IsRead = false
	m.CreatedAt = time.Now()
}

func (m *Message) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if m.SenderID == "" {
		errorMessages["Required_sender"] = "Required Sender"
	}
	if m.RecipientID == "" {
		errorMessages["Required_recipient"] = "Required Recipient"
	}
	if m.SenderID != "" && m.SenderID == m.RecipientID {
		errorMessages["Invalid_recipient"] = "Cannot message yourself"
	}
	if m.Content == "" {
		errorMessages["Required_content"] = "Required Content"
	}
	if utf8.RuneCountInString(m.Content) > MaxMessageLength {
		errorMessages["Invalid_content"] = "Content should be at most 1000 characters"
	}
	return errorMessages
}

// SaveMessage stores the message after checking both participants exist.
func (m *Message) SaveMessage(db *gorm.DB) (*Message, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).
			Where("id IN ?", []string{m.SenderID, m.RecipientID}).
			Count(&count).Error; err != nil {
			return err
		}
		if count != 2 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return &Message{}, err
	}
	return m, nil
}

// FindConversation returns messages exchanged between two users in either direction, newest first.
func FindConversation(db *gorm.DB, userID, otherID string, limit, offset int) ([]Message, error) {
	messages := []Message{}
	err := db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

// MarkMessageRead flags a message as read; only its recipient may do so.
func MarkMessageRead(db *gorm.DB, messageID, userID string) error {
	result := db.Model(&Message{}).
		Where("id = ? AND recipient_id = ?", messageID, userID).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
