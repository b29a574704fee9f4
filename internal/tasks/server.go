package tasks

import (
	"fmt"
	"time"

	"mailroom/internal/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var queues = map[string]int{
	QueueCritical: 6, // High priority
	QueueDefault:  3, // Medium priority
}

// Server handles task processing
type Server struct {
	server      *asynq.Server
	handler     *TaskHandler
	logger      *zap.Logger
	concurrency int
}

// NewServer creates a new task processing server
func NewServer(cfg *config.Config, handler *TaskHandler, logger *zap.Logger) *Server {
	server := asynq.NewServer(
		RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues:      queues,
			// Higher priority queues are drained first
			StrictPriority:  true,
			ShutdownTimeout: 30 * time.Second,
		},
	)

	return &Server{
		server:      server,
		handler:     handler,
		logger:      logger,
		concurrency: cfg.Worker.Concurrency,
	}
}

// Mux returns the task routes served by s
func (s *Server) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeCampaignSend, s.handler.HandleCampaignSend)
	mux.HandleFunc(TaskTypeSubscriptionConfirm, s.handler.HandleSubscriptionConfirm)
	return mux
}

// Start starts the task processing server
func (s *Server) Start() error {
	s.logger.Info("starting task processing server",
		zap.Int("concurrency", s.concurrency),
		zap.Any("queues", queues),
	)

	if err := s.server.Start(s.Mux()); err != nil {
		return fmt.Errorf("failed to start task server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the task processing server
func (s *Server) Shutdown() {
	s.logger.Info("shutting down task processing server")
	s.server.Shutdown()
}
