package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/engagement"
	httpctx "github.com/rafa-porto/dev-connect/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// CreatePost godoc
// @Summary      Create a post
// @Description  Publish a post, a reply (parent_post_id) or a repost (repost_id)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        post  body      CreatePostBody  true  "Post payload"
// @Success      201   {object}  PostEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /posts [post]
// @Security     UserIDHeader
func (server *Server) CreatePost(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var body CreatePostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		server.respondError(c, apperrors.NewValidation("body", err.Error()))
		return
	}

	post, err := server.Engagement.CreatePost(c.Request.Context(), engagement.CreatePostRequest{
		UserID:       requestorID,
		Content:      body.Content,
		ParentPostID: body.ParentPostID,
		RepostID:     body.RepostID,
	})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": postToDTO(post)})
}

// GetPost godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  PostEnvelope
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (server *Server) GetPost(c *gin.Context) {
	post, err := server.Engagement.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": postToDTO(post)})
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Only the author may delete a post; anyone else gets 404
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
// @Security     UserIDHeader
func (server *Server) DeletePost(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := server.Engagement.DeletePost(c.Request.Context(), engagement.DeletePostRequest{
		PostID:      c.Param("id"),
		RequesterID: requestorID,
	})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimpleMessageResponse{Status: http.StatusOK, Response: "Post deleted"})
}

// GetPosts godoc
// @Summary      Recent posts
// @Description  Every post, newest first
// @Tags         posts
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 20, max 100)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {object}  PostListEnvelope
// @Failure      400     {object}  ErrorResponse
// @Router       /posts [get]
func (server *Server) GetPosts(c *gin.Context) {
	limit, offset, err := pageQuery(c)
	if err != nil {
		server.respondError(c, err)
		return
	}
	req, err := engagement.RecentPostsRequest{Limit: limit, Offset: offset}.Normalize()
	if err != nil {
		server.respondError(c, err)
		return
	}

	posts, err := server.Engagement.ListRecentPosts(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	server.respondPosts(c, posts, req.Limit, req.Offset)
}

// GetUserPosts godoc
// @Summary      List a user's posts
// @Tags         posts
// @Produce      json
// @Param        id      path      string  true   "User ID"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  PostListEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /users/{id}/posts [get]
func (server *Server) GetUserPosts(c *gin.Context) {
	limit, offset, err := pageQuery(c)
	if err != nil {
		server.respondError(c, err)
		return
	}
	req, err := engagement.ListRequest{UserID: c.Param("id"), Limit: limit, Offset: offset}.Normalize()
	if err != nil {
		server.respondError(c, err)
		return
	}

	posts, err := server.Engagement.ListUserPosts(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	server.respondPosts(c, posts, req.Limit, req.Offset)
}

// GetFeed godoc
// @Summary      Home feed
// @Description  Posts by the acting user and everyone they follow, newest first
// @Tags         feed
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 20, max 50)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {object}  PostListEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /feed [get]
// @Security     UserIDHeader
func (server *Server) GetFeed(c *gin.Context) {
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
	req, err := engagement.FeedRequest{ViewerID: requestorID, Limit: limit, Offset: offset}.Normalize()
	if err != nil {
		server.respondError(c, err)
		return
	}

	posts, err := server.Engagement.GetFeed(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	server.respondPosts(c, posts, req.Limit, req.Offset)
}
