package controllers

import (
	"errors"
	"net/http"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/engagement"
	"github.com/rafa-porto/dev-connect/api/models"
	httpctx "github.com/rafa-porto/dev-connect/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotifications godoc
// @Summary      List notifications
// @Description  Notifications for the acting user, newest first
// @Tags         notifications
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 20, max 100)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {object}  NotificationListEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Router       /notifications [get]
// @Security     UserIDHeader
func (server *Server) GetNotifications(c *gin.Context) {
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
	req, err := engagement.ListRequest{UserID: requestorID, Limit: limit, Offset: offset}.Normalize()
	if err != nil {
		server.respondError(c, err)
		return
	}

	notifications, err := server.Engagement.ListNotifications(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   notificationsToDTO(notifications),
		"pagination": PageResponse{Limit: req.Limit, Offset: req.Offset},
	})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [patch]
// @Security     UserIDHeader
func (server *Server) MarkNotificationRead(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	notificationID := c.Param("id")
	err := models.MarkNotificationRead(server.DB.WithContext(c.Request.Context()), notificationID, requestorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		server.respondError(c, apperrors.NewNotFound("notification", notificationID))
		return
	}
	if err != nil {
		server.respondError(c, apperrors.Classify("read_notification", err))
		return
	}
	c.JSON(http.StatusOK, SimpleMessageResponse{Status: http.StatusOK, Response: "Notification marked as read"})
}
