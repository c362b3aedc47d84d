package engagement

import (
	"context"
	"errors"
	"strings"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/events"
	"github.com/rafa-porto/dev-connect/api/models"

	"gorm.io/gorm"
)

const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 100
)

type SendMessageRequest struct {
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

// ConversationRequest pages through the messages exchanged by UserID and OtherID in either
// direction. Limit defaults to 50 and is capped at 100.
type ConversationRequest struct {
	UserID  string `json:"user_id"`
	OtherID string `json:"other_id"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}

func (r ConversationRequest) Normalize() (ConversationRequest, error) {
	if strings.TrimSpace(r.UserID) == "" {
		return r, apperrors.NewValidation("user_id", "required")
	}
	if strings.TrimSpace(r.OtherID) == "" {
		return r, apperrors.NewValidation("other_id", "required")
	}
	limit, offset, err := normalizePage(r.Limit, r.Offset, DefaultMessageLimit, MaxMessageLimit)
	r.Limit, r.Offset = limit, offset
	return r, err
}

// SendMessage stores a direct message. Both participants must exist.
func (s *Service) SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	message := models.Message{
		SenderID:    strings.TrimSpace(req.SenderID),
		RecipientID: strings.TrimSpace(req.RecipientID),
		Content:     req.Content,
	}
	message.Prepare()
	message.CreatedAt = s.now()
	if msgs := message.Validate(); len(msgs) > 0 {
		err := firstValidationError(msgs)
		s.observe("send_message", "created", err)
		return nil, err
	}

	_, err := message.SaveMessage(s.db.WithContext(ctx))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = apperrors.NewNotFound("user", message.RecipientID)
	}
	err = apperrors.Classify("send_message", err)
	s.observe("send_message", "created", err)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.EngagementEvent{
		Subject:      events.MessageCreated,
		ActorID:      message.SenderID,
		TargetUserID: message.RecipientID,
	})
	return &message, nil
}

// ListConversation returns the conversation newest first.
func (s *Service) ListConversation(ctx context.Context, req ConversationRequest) ([]models.Message, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := requireUsers(db, req.UserID, req.OtherID); err != nil {
		return nil, apperrors.Classify("list_messages", err)
	}
	messages, err := models.FindConversation(db, req.UserID, req.OtherID, req.Limit, req.Offset)
	return messages, apperrors.Classify("list_messages", err)
}

// MarkMessageRead flags a message as read. Only its recipient may do so; anyone else gets
// NotFound.
func (s *Service) MarkMessageRead(ctx context.Context, messageID, userID string) error {
	err := models.MarkMessageRead(s.db.WithContext(ctx), messageID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFound("message", messageID)
	}
	return apperrors.Classify("read_message", err)
}
