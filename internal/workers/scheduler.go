package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mailroom/internal/config"
	"mailroom/internal/utils/logger"
)

// Job is a named periodic task. Spec uses the standard cron syntax or one
// of the @every / @hourly descriptors.
type Job struct {
	Name string
	Spec string
	Fn   func(ctx context.Context) error
}

// Scheduler runs maintenance jobs on a cron schedule. Overlapping runs of the
// same job are skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]Job
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		logger:  logger.New("SCHEDULER"),
		ctx:     ctx,
		cancel:  cancel,
		timeout: 5 * time.Minute,
		jobs:    make(map[string]Job),
	}
}

// Register adds job to the schedule. Names must be unique.
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %q already registered", job.Name)
	}
	if _, err := s.cron.AddFunc(job.Spec, func() { _ = s.run(s.ctx, job) }); err != nil {
		return fmt.Errorf("invalid schedule %q for job %q: %w", job.Spec, job.Name, err)
	}
	s.jobs[job.Name] = job
	return nil
}

// Run executes a registered job immediately.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.run(ctx, job)
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		return s.logger.Error("job %s failed: %w", job.Name, err)
	}
	s.logger.Debug("job %s finished in %s", job.Name, time.Since(start))
	return nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting with %d jobs", len(s.jobs))
	s.cron.Start()
}

// Stop halts the schedule and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("stopped")
}

// ConfirmationPurger drops confirmation requests past their expiry.
type ConfirmationPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// CampaignRequeuer enqueues again campaigns whose send task went missing.
type CampaignRequeuer interface {
	RequeueOverdue(ctx context.Context) (int, error)
}

// RegisterMaintenance installs the housekeeping jobs of the list service.
func RegisterMaintenance(s *Scheduler, cfg config.WorkerConfig, confirmations ConfirmationPurger, campaigns CampaignRequeuer) error {
	jobLog := logger.New("MAINTENANCE")

	if err := s.Register(Job{
		Name: "purge_confirmations",
		Spec: cfg.CleanupSchedule,
		Fn: func(ctx context.Context) error {
			removed, err := confirmations.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			if removed > 0 {
				jobLog.Info("purged %d expired confirmation requests", removed)
			}
			return nil
		},
	}); err != nil {
		return err
	}

	return s.Register(Job{
		Name: "requeue_campaigns",
		Spec: "@every 1m",
		Fn: func(ctx context.Context) error {
			requeued, err := campaigns.RequeueOverdue(ctx)
			if err != nil {
				return err
			}
			if requeued > 0 {
				jobLog.Warn("requeued %d overdue campaigns", requeued)
			}
			return nil
		},
	})
}
