package controllers

import (
	"github.com/rafa-porto/dev-connect/api/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initializeRoutes() {

	s.Router.GET("/healthz", s.Healthz)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middlewares.RequireActor()
	writes := s.writeLimiter.Middleware()

	v1 := s.Router.Group("/api/v1")
	{
		// Users routes
		v1.POST("/users", s.CreateUser)
		v1.GET("/users/:id", s.GetUser)
		v1.PATCH("/users/:id", auth, writes, s.UpdateUser)
		v1.DELETE("/users/:id", auth, s.DeleteUser)

		// Follow routes
		v1.POST("/users/:id/follow", auth, writes, s.FollowUser)
		v1.DELETE("/users/:id/follow", auth, writes, s.UnfollowUser)
		v1.GET("/users/:id/relationship", auth, s.GetRelationship)
		v1.GET("/users/:id/followers", s.GetFollowers)
		v1.GET("/users/:id/following", s.GetFollowing)

		// Post routes
		v1.GET("/users/:id/posts", s.GetUserPosts)
		v1.GET("/feed", auth, s.GetFeed)
		v1.GET("/posts", s.GetPosts)
		v1.POST("/posts", auth, writes, s.CreatePost)
		v1.GET("/posts/:id", s.GetPost)
		v1.DELETE("/posts/:id", auth, s.DeletePost)

		// Like and bookmark routes
		v1.POST("/posts/:id/like", auth, writes, s.LikePost)
		v1.DELETE("/posts/:id/like", auth, writes, s.UnlikePost)
		v1.POST("/posts/:id/bookmark", auth, writes, s.BookmarkPost)
		v1.DELETE("/posts/:id/bookmark", auth, writes, s.RemoveBookmark)
		v1.GET("/bookmarks", auth, s.GetBookmarks)

		// Message routes
		v1.POST("/messages", auth, writes, s.SendMessage)
		v1.GET("/messages/:id", auth, s.GetConversation)
		v1.PATCH("/messages/:id/read", auth, s.MarkMessageRead)

		// Notification routes
		v1.GET("/notifications", auth, s.GetNotifications)
		v1.PATCH("/notifications/:id/read", auth, s.MarkNotificationRead)

		// Project routes
		v1.POST("/projects", auth, writes, s.CreateProject)
		v1.GET("/users/:id/projects", s.GetUserProjects)

		// Discovery routes
		v1.GET("/hashtags/trending", s.GetTrendingHashtags)
		v1.GET("/search", s.Search)

		admin := v1.Group("/admin", auth, middlewares.AdminOnlyMiddleware())
		admin.POST("/recount", s.RecountCounters)
		admin.DELETE("/cache/hashtags", s.FlushTrendingCache)
	}
}
