package engagement

import (
	"context"
	"testing"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserRequest{Username: " Alice ", Email: "Alice@Example.com", Name: "Alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Zero(t, user.FollowerCount)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Username: "alice", Email: "other@example.com"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeAlreadyExists))

	_, err = svc.CreateUser(ctx, CreateUserRequest{Username: "bob", Email: "not-an-email"})
	require.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestSendMessageAndConversation(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, db := setupService(t, WithPublisher(publisher))
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	first, err := svc.SendMessage(ctx, SendMessageRequest{SenderID: alice.ID, RecipientID: bob.ID, Content: "hi bob"})
	require.NoError(t, err)
	second, err := svc.SendMessage(ctx, SendMessageRequest{SenderID: bob.ID, RecipientID: alice.ID, Content: "hi alice"})
	require.NoError(t, err)

	conversation, err := svc.ListConversation(ctx, ConversationRequest{UserID: alice.ID, OtherID: bob.ID})
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	assert.Equal(t, second.ID, conversation[0].ID)
	assert.Equal(t, first.ID, conversation[1].ID)

	assert.Equal(t, []string{events.MessageCreated, events.MessageCreated}, publisher.subjects())
	assert.Equal(t, bob.ID, publisher.events[0].TargetUserID)
}

func TestSendMessageRejectsInvalid(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	_, err := svc.SendMessage(ctx, SendMessageRequest{SenderID: alice.ID, RecipientID: alice.ID, Content: "me"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	_, err = svc.SendMessage(ctx, SendMessageRequest{SenderID: alice.ID, RecipientID: "missing", Content: "hello?"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	_, err = svc.ListConversation(ctx, ConversationRequest{UserID: alice.ID, OtherID: "missing"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestMarkMessageReadRecipientOnly(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	message, err := svc.SendMessage(ctx, SendMessageRequest{SenderID: alice.ID, RecipientID: bob.ID, Content: "read me"})
	require.NoError(t, err)

	err = svc.MarkMessageRead(ctx, message.ID, alice.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	require.NoError(t, svc.MarkMessageRead(ctx, message.ID, bob.ID))
	conversation, err := svc.ListConversation(ctx, ConversationRequest{UserID: bob.ID, OtherID: alice.ID})
	require.NoError(t, err)
	require.Len(t, conversation, 1)
	assert.True(t, conversation[0].IsRead)
}
