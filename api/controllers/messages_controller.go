package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/engagement"
	httpctx "github.com/rafa-porto/dev-connect/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// SendMessage godoc
// @Summary      Send a direct message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        message  body      SendMessageBody  true  "Message payload"
// @Success      201      {object}  MessageEnvelope
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /messages [post]
// @Security     UserIDHeader
func (server *Server) SendMessage(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var body SendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		server.respondError(c, apperrors.NewValidation("body", err.Error()))
		return
	}

	message, err := server.Engagement.SendMessage(c.Request.Context(), engagement.SendMessageRequest{
		SenderID:    requestorID,
		RecipientID: body.RecipientID,
		Content:     body.Content,
	})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": messageToDTO(message)})
}

// GetConversation godoc
// @Summary      Conversation with a user
// @Description  Messages exchanged with the given user in both directions, newest first
// @Tags         messages
// @Produce      json
// @Param        id      path      string  true   "Other user ID"
// @Param        limit   query     int     false  "Page size (default 50, max 100)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  MessageListEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /messages/{id} [get]
// @Security     UserIDHeader
func (server *Server) GetConversation(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit, offset, err := pageQuery(c)
	if err != nil {
		server.respondError(c, err)
		return
	}
	req, err := engagement.ConversationRequest{
		UserID:  requestorID,
		OtherID: c.Param("id"),
		Limit:   limit,
		Offset:  offset,
	}.Normalize()
	if err != nil {
		server.respondError(c, err)
		return
	}

	messages, err := server.Engagement.ListConversation(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   messagesToDTO(messages),
		"pagination": PageResponse{Limit: req.Limit, Offset: req.Offset},
	})
}

// MarkMessageRead godoc
// @Summary      Mark a message read
// @Description  Only the recipient may mark a message read; anyone else gets 404
// @Tags         messages
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /messages/{id}/read [patch]
// @Security     UserIDHeader
func (server *Server) MarkMessageRead(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := server.Engagement.MarkMessageRead(c.Request.Context(), c.Param("id"), requestorID); err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimpleMessageResponse{Status: http.StatusOK, Response: "Message marked as read"})
}
