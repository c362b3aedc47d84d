package controllers

import (
	"context"
	"net/http"

	"github.com/rafa-porto/dev-connect/api/engagement"
	"github.com/rafa-porto/dev-connect/api/models"
	httpctx "github.com/rafa-porto/dev-connect/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// FollowUser godoc
// @Summary      Follow a user
// @Description  Follow another user as the acting user
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "User ID to follow"
// @Success      201  {object}  EdgeEnvelope
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users/{id}/follow [post]
// @Security     UserIDHeader
func (server *Server) FollowUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	follow, err := server.Engagement.Follow(c.Request.Context(), engagement.FollowRequest{
		FollowerID:  requestorID,
		FollowingID: c.Param("id"),
	})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": followToDTO(follow)})
}

// UnfollowUser godoc
// @Summary      Unfollow a user
// @Description  Remove the follow edge if present. Unfollowing someone you do not follow succeeds.
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "User ID to unfollow"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/{id}/follow [delete]
// @Security     UserIDHeader
func (server *Server) UnfollowUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := server.Engagement.Unfollow(c.Request.Context(), engagement.FollowRequest{
		FollowerID:  requestorID,
		FollowingID: c.Param("id"),
	})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimpleMessageResponse{Status: http.StatusOK, Response: "User unfollowed"})
}

// GetRelationship godoc
// @Summary      Relationship with a user
// @Description  Follow edges between the acting user and the target, in both directions
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "Target user ID"
// @Success      200  {object}  RelationshipEnvelope
// @Failure      401  {object}  ErrorResponse
// @Router       /users/{id}/relationship [get]
// @Security     UserIDHeader
func (server *Server) GetRelationship(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	targetID := c.Param("id")
	rel, err := server.Engagement.GetRelationship(c.Request.Context(), requestorID, targetID)
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": RelationshipDTO{
		UserID:     targetID,
		Following:  rel.Following,
		FollowedBy: rel.FollowedBy,
		Mutual:     rel.Mutual,
	}})
}

// GetFollowers godoc
// @Summary      List followers
// @Description  Users following the given user, most recent follow first
// @Tags         follows
// @Produce      json
// @Param        id      path      string  true   "User ID"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  UserListEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /users/{id}/followers [get]
func (server *Server) GetFollowers(c *gin.Context) {
	server.listFollows(c, server.Engagement.ListFollowers)
}

// GetFollowing godoc
// @Summary      List following
// @Description  Users the given user follows, most recent follow first
// @Tags         follows
// @Produce      json
// @Param        id      path      string  true   "User ID"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {object}  UserListEnvelope
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /users/{id}/following [get]
func (server *Server) GetFollowing(c *gin.Context) {
	server.listFollows(c, server.Engagement.ListFollowing)
}

type followLister func(ctx context.Context, req engagement.ListRequest) ([]models.User, error)

func (server *Server) listFollows(c *gin.Context, list followLister) {
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

	users, err := list(c.Request.Context(), req)
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   usersToDTO(users),
		"pagination": PageResponse{Limit: req.Limit, Offset: req.Offset},
	})
}
