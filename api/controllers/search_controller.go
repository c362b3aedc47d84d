package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/engagement"

	"github.com/gin-gonic/gin"
)

// Search godoc
// @Summary      Search
// @Description  Case-insensitive substring search over post content, usernames and hashtags
// @Tags         search
// @Produce      json
// @Param        q       query     string  true   "Search text"
// @Param        type    query     string  false  "posts, users or hashtags (default all)"
// @Param        limit   query     int     false  "Page size per kind (default 20, max 50)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  SearchEnvelope
// @Failure      400     {object}  ErrorResponse
// @Router       /search [get]
func (server *Server) Search(c *gin.Context) {
	limit, offset, err := pageQuery(c)
	if err != nil {
		server.respondError(c, err)
		return
	}
	req, err := engagement.SearchRequest{
		Query:  c.Query("q"),
		Type:   c.Query("type"),
		Limit:  limit,
		Offset: offset,
	}.Normalize()
	if err != nil {
		server.respondError(c, err)
		return
	}

	results, err := server.Engagement.Search(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   searchResultsToDTO(results),
		"pagination": PageResponse{Limit: req.Limit, Offset: req.Offset},
	})
}
