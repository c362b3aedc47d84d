package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/cache"
	"github.com/rafa-porto/dev-connect/api/jobs"

	"github.com/gin-gonic/gin"
)

// RecountCounters godoc
// @Summary      Recount engagement counters
// @Description  Rebuild every follower, following, post, like, bookmark, reply and repost counter from the edge tables
// @Tags         admin
// @Produce      json
// @Success      200  {object}  RecountEnvelope
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/recount [post]
// @Security     UserIDHeader
func (server *Server) RecountCounters(c *gin.Context) {
	repaired, err := jobs.RunRecount(c.Request.Context(), server.Engagement, server.Log)
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecountEnvelope{Status: http.StatusOK, Repaired: repaired})
}

// FlushTrendingCache godoc
// @Summary      Flush the trending hashtag cache
// @Tags         admin
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/cache/hashtags [delete]
// @Security     UserIDHeader
func (server *Server) FlushTrendingCache(c *gin.Context) {
	if err := server.Cache.DeleteByPrefix(c.Request.Context(), cache.TrendingPrefix()); err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimpleMessageResponse{Status: http.StatusOK, Response: "Trending cache flushed"})
}

// Healthz reports whether the database answers.
func (server *Server) Healthz(c *gin.Context) {
	sqlDB, err := server.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
