package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/engagement"

	"github.com/gin-gonic/gin"
)

// GetTrendingHashtags godoc
// @Summary      Trending hashtags
// @Description  Hashtags ordered by trending score. Cached for 60 seconds.
// @Tags         hashtags
// @Produce      json
// @Param        limit  query     int  false  "Number of hashtags (default 10, max 50)"
// @Success      200    {object}  HashtagListEnvelope
// @Failure      400    {object}  ErrorResponse
// @Router       /hashtags/trending [get]
func (server *Server) GetTrendingHashtags(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		server.respondError(c, err)
		return
	}

	hashtags, err := server.Engagement.TrendingHashtags(c.Request.Context(), engagement.TrendingRequest{Limit: limit})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": hashtagsToDTO(hashtags)})
}
