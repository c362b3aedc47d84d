package controllers

import (
	"net/http"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/engagement"
	httpctx "github.com/rafa-porto/dev-connect/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// CreateProject godoc
// @Summary      Add a project
// @Description  Add a portfolio project to the acting user's profile
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project  body      CreateProjectBody  true  "Project payload"
// @Success      201      {object}  ProjectEnvelope
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /projects [post]
// @Security     UserIDHeader
func (server *Server) CreateProject(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var body CreateProjectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		server.respondError(c, apperrors.NewValidation("body", err.Error()))
		return
	}

	project, err := server.Engagement.CreateProject(c.Request.Context(), engagement.CreateProjectRequest{
		UserID:      requestorID,
		Title:       body.Title,
		Description: body.Description,
		TechStack:   body.TechStack,
		ImageURLs:   body.ImageURLs,
		GithubURL:   body.GithubURL,
		LiveURL:     body.LiveURL,
		IsFeatured:  body.IsFeatured,
	})
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": projectToDTO(project)})
}

// GetUserProjects godoc
// @Summary      List a user's projects
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  ProjectListEnvelope
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/projects [get]
func (server *Server) GetUserProjects(c *gin.Context) {
	projects, err := server.Engagement.ListProjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": projectsToDTO(projects)})
}
