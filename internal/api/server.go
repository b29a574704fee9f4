package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"mailroom/internal/api/middleware"
	"mailroom/internal/config"
	"mailroom/internal/handlers"
	"mailroom/internal/intake"
	"mailroom/internal/services"
	"mailroom/internal/tasks"
	"mailroom/internal/utils"
	"mailroom/internal/utils/logger"
)

// CustomValidator lets handlers call c.Validate on tagged request structs.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Server is the HTTP front of the list management API.
type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB
	redis  *utils.RedisClient
	logger *logger.Logger

	auth          *middleware.AccessTokenMiddleware
	subscriptions *handlers.SubscriptionHandler
	lists         *handlers.ListHandler
	campaigns     *handlers.CampaignHandler
}

// NewServer wires services and handlers on top of the database, the redis
// client used for rate limiting and the task queue. redis may be nil when
// rate limiting is disabled.
func NewServer(cfg *config.Config, conn *gorm.DB, redis *utils.RedisClient, queue *tasks.TaskClient) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Server.Debug
	e.HTTPErrorHandler = handlers.ErrorHandler
	e.Validator = &CustomValidator{validator: intake.Validator()}

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Format: "${time_rfc3339} ${id} ${method} ${uri} ${status} ${latency_human}\n",
	}))

	listService := services.NewListService(conn)
	fieldService := services.NewFieldService(conn)
	subscriptionService := services.NewSubscriptionService(conn)
	confirmationService := services.NewConfirmationService(conn, queue, cfg.Confirmation)
	campaignService := services.NewCampaignService(conn, listService, queue)

	pipeline := intake.NewService(listService, fieldService, subscriptionService, confirmationService)

	s := &Server{
		echo:          e,
		config:        cfg,
		db:            conn,
		redis:         redis,
		logger:        logger.New("API"),
		auth:          middleware.NewAccessTokenMiddleware(services.NewUserService(conn)),
		subscriptions: handlers.NewSubscriptionHandler(pipeline),
		lists:         handlers.NewListHandler(listService),
		campaigns:     handlers.NewCampaignHandler(campaignService),
	}

	s.registerRoutes()
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status := map[string]string{"database": "ok", "redis": "ok"}
	healthy := true

	if s.db == nil {
		status["database"] = "unavailable"
		healthy = false
	} else if sqlDB, err := s.db.DB(); err != nil {
		status["database"] = err.Error()
		healthy = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		status["database"] = err.Error()
		healthy = false
	}

	if s.redis == nil {
		status["redis"] = "disabled"
	} else if err := s.redis.HealthCheck(ctx); err != nil {
		status["redis"] = err.Error()
		healthy = false
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
