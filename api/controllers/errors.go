package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/apperrors"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatus = map[apperrors.ErrorType]int{
	apperrors.ErrorTypeNotFound:      http.StatusNotFound,
	apperrors.ErrorTypeSelfReference: http.StatusBadRequest,
	apperrors.ErrorTypeValidation:    http.StatusBadRequest,
	apperrors.ErrorTypeAlreadyExists: http.StatusConflict,
	apperrors.ErrorTypeConflict:      http.StatusConflict,
}

// respondError writes err as a JSON error. Errors outside the taxonomy are reported to
// Sentry and hidden behind a generic 500.
func (server *Server) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	errType := apperrors.TypeOf(err)
	status, known := errorStatus[errType]
	if !known {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("route", c.FullPath())
		hub.Scope().SetRequest(c.Request)
		hub.CaptureException(err)

		server.Log.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	body := ErrorResponse{Error: apperrors.MessageOf(err), Type: string(errType)}
	if errType == apperrors.ErrorTypeConflict {
		retryable := apperrors.IsRetryable(err)
		body.Retryable = &retryable
	}
	c.JSON(status, body)
}
