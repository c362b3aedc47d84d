package controllers

import (
	"strconv"

	"github.com/rafa-porto/dev-connect/api/apperrors"

	"github.com/gin-gonic/gin"
)

// pageQuery reads the raw limit and offset query parameters. Zero means unset; the engagement
// request types own the defaults and bounds.
func pageQuery(c *gin.Context) (limit, offset int, err error) {
	if limit, err = intQuery(c, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = intQuery(c, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidation(key, "must be an integer")
	}
	return n, nil
}
