package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/engagement"
	"github.com/rafa-porto/dev-connect/api/models"
	httpctx "github.com/rafa-porto/dev-connect/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// LikePost godoc
// @Summary      Like a post
// @Tags         likes
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      201  {object}  EdgeEnvelope
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /posts/{id}/like [post]
// @Security     UserIDHeader
func (server *Server) LikePost(c *gin.Context) {
	req, ok := postEdgeRequest(c)
	if !ok {
		return
	}
	like, err := server.Engagement.Like(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": likeToDTO(like)})
}

// UnlikePost godoc
// @Summary      Unlike a post
// @Description  Remove the like if present. Unliking a post you have not liked succeeds.
// @Tags         likes
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /posts/{id}/like [delete]
// @Security     UserIDHeader
func (server *Server) UnlikePost(c *gin.Context) {
	req, ok := postEdgeRequest(c)
	if !ok {
		return
	}
	if err := server.Engagement.Unlike(c.Request.Context(), req); err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimpleMessageResponse{Status: http.StatusOK, Response: "Post unliked"})
}

// BookmarkPost godoc
// @Summary      Bookmark a post
// @Tags         bookmarks
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      201  {object}  EdgeEnvelope
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /posts/{id}/bookmark [post]
// @Security     UserIDHeader
func (server *Server) BookmarkPost(c *gin.Context) {
	req, ok := postEdgeRequest(c)
	if !ok {
		return
	}
	bookmark, err := server.Engagement.Bookmark(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": bookmarkToDTO(bookmark)})
}

// RemoveBookmark godoc
// @Summary      Remove a bookmark
// @Description  Remove the bookmark if present. Removing a missing bookmark succeeds.
// @Tags         bookmarks
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /posts/{id}/bookmark [delete]
// @Security     UserIDHeader
func (server *Server) RemoveBookmark(c *gin.Context) {
	req, ok := postEdgeRequest(c)
	if !ok {
		return
	}
	if err := server.Engagement.RemoveBookmark(c.Request.Context(), req); err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimpleMessageResponse{Status: http.StatusOK, Response: "Bookmark removed"})
}

// GetBookmarks godoc
// @Summary      List bookmarks
// @Description  Posts the acting user bookmarked, most recent bookmark first
// @Tags         bookmarks
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 20, max 100)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {object}  PostListEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Router       /bookmarks [get]
// @Security     UserIDHeader
func (server *Server) GetBookmarks(c *gin.Context) {
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

	posts, err := server.Engagement.ListBookmarks(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	server.respondPosts(c, posts, req.Limit, req.Offset)
}

func postEdgeRequest(c *gin.Context) (engagement.PostEdgeRequest, bool) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return engagement.PostEdgeRequest{}, false
	}
	return engagement.PostEdgeRequest{UserID: requestorID, PostID: c.Param("id")}, true
}

func (server *Server) respondPosts(c *gin.Context, posts []models.Post, limit, offset int) {
	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   postsToDTO(posts),
		"pagination": PageResponse{Limit: limit, Offset: offset},
	})
}
