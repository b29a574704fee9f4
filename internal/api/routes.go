package api

import (
	echoSwagger "github.com/swaggo/echo-swagger"

	"mailroom/internal/api/middleware"
	_ "mailroom/internal/docs"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.echo.Group("/api")
	api.Use(s.auth.Middleware())
	if s.config.RateLimit.Enabled && s.redis != nil {
		api.Use(middleware.RateLimiter(middleware.NewRateLimitConfig(
			s.redis,
			s.config.RateLimit.RequestsPerMinute,
			s.config.RateLimit.Burst,
		)))
	}

	api.POST("/lists/create", s.lists.Create)

	api.POST("/subscribe/:listId", s.subscriptions.Subscribe)
	api.POST("/unsubscribe/:listId", s.subscriptions.Unsubscribe)
	api.POST("/delete/:listId", s.subscriptions.Delete)
	api.POST("/field/:listId", s.subscriptions.CreateField)

	api.POST("/campaigns/create", s.campaigns.Create)
	api.POST("/campaigns/send", s.campaigns.Send)
}
