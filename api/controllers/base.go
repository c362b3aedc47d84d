package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rafa-porto/dev-connect/api/cache"
	"github.com/rafa-porto/dev-connect/api/config"
	docs "github.com/rafa-porto/dev-connect/api/docs"
	"github.com/rafa-porto/dev-connect/api/engagement"
	applog "github.com/rafa-porto/dev-connect/api/logger"
	"github.com/rafa-porto/dev-connect/api/middlewares"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	DB         *gorm.DB
	Router     *gin.Engine
	Engagement *engagement.Service
	Cache      *cache.Store
	Log        *zap.Logger

	limiter      *middlewares.RateLimiter
	writeLimiter *middlewares.RateLimiter
}

// ===============================
// SERVER INITIALIZATION
// ===============================
func (server *Server) Initialize(cfg *config.Config) {
	if server.Log == nil {
		server.Log = applog.Named("http")
	}
	if server.Cache == nil {
		server.Cache = cache.New(nil)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server.limiter = middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	server.writeLimiter = middlewares.NewWriteRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	server.Router = gin.New()
	server.Router.Use(middlewares.RequestLogger(server.Log))
	server.Router.Use(gin.Recovery())
	server.Router.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins()))
	server.Router.Use(server.limiter.Middleware())
	server.Router.Use(middlewares.ActorMiddleware())
	server.initializeRoutes()

	if !cfg.IsProduction() {
		docs.SwaggerInfo.Schemes = []string{"http"}
		if cfg.SwaggerHost != "" {
			docs.SwaggerInfo.Host = cfg.SwaggerHost
		}
		server.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// Run serves HTTP on addr until ctx is cancelled, then drains in-flight requests.
func (server *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan struct{})
	defer close(stop)
	for _, l := range []*middlewares.RateLimiter{server.limiter, server.writeLimiter} {
		go l.Cleanup(time.Minute, 10*time.Minute, stop)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	server.Log.Info("Server started", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	server.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
