package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/engagement"
	httpctx "github.com/rafa-porto/dev-connect/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// CreateUser godoc
// @Summary      Create a user
// @Description  Register a profile. Counters start at zero.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      CreateUserBody  true  "User payload"
// @Success      201   {object}  UserEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users [post]
func (server *Server) CreateUser(c *gin.Context) {
	var body CreateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		server.respondError(c, apperrors.NewValidation("body", err.Error()))
		return
	}

	user, err := server.Engagement.CreateUser(c.Request.Context(), engagement.CreateUserRequest{
		Username: body.Username,
		Email:    body.Email,
		Name:     body.Name,
		Bio:      body.Bio,
	})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": userToDTO(user)})
}

// GetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  UserEnvelope
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (server *Server) GetUser(c *gin.Context) {
	user, err := server.Engagement.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(user)})
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Delete a user with their posts and edges. Counters on the other side of every edge are decremented.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
// @Security     UserIDHeader
func (server *Server) DeleteUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	userID := c.Param("id")
	if requestorID != userID && !httpctx.IsAdminRequest(c) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	if err := server.Engagement.DeleteUser(c.Request.Context(), userID); err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimpleMessageResponse{Status: http.StatusOK, Response: "User deleted"})
}

// UpdateUser godoc
// @Summary      Update a profile
// @Description  Partial update of the acting user's own profile. Omitted fields are unchanged.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "User ID"
// @Param        user  body      UpdateUserBody  true  "Fields to change"
// @Success      200   {object}  UserEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /users/{id} [patch]
// @Security     UserIDHeader
func (server *Server) UpdateUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	userID := c.Param("id")
	if requestorID != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	var body UpdateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		server.respondError(c, apperrors.NewValidation("body", err.Error()))
		return
	}

	user, err := server.Engagement.UpdateUser(c.Request.Context(), engagement.UpdateUserRequest{
		UserID:       userID,
		Name:         body.Name,
		Bio:          body.Bio,
		AvatarURL:    body.AvatarURL,
		BannerURL:    body.BannerURL,
		Location:     body.Location,
		Website:      body.Website,
		GithubURL:    body.GithubURL,
		PortfolioURL: body.PortfolioURL,
	})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(user)})
}
