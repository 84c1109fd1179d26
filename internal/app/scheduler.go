package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

// Job is a recurring task run by the scheduler.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler runs jobs on cron specs in the league time zone. A job still
// running when its next tick comes is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *logging.Logger
}

func NewScheduler(ctx context.Context, location *time.Location, logger *logging.Logger, jobs ...Job) (*Scheduler, error) {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(location), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger.Named("scheduler"),
	}
	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.Spec, s.wrap(ctx, job)); err != nil {
			return nil, fmt.Errorf("schedule job %s (%q): %w", job.Name, job.Spec, err)
		}
		s.logger.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	}
	return s, nil
}

func (s *Scheduler) wrap(ctx context.Context, job Job) func() {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return func() {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(runCtx); err != nil {
			s.logger.ErrorContext(runCtx, "scheduled job failed", "job", job.Name, "error", err, "duration", time.Since(start).String())
			return
		}
		s.logger.InfoContext(runCtx, "scheduled job done", "job", job.Name, "duration", time.Since(start).String())
	}
}

// Run starts the jobs and blocks until ctx is done and running jobs return.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Jobs returns the daily publish and review jobs.
func (a *App) Jobs() []Job {
	return []Job{
		{
			Name: "publish-schedule",
			Spec: a.Config.CronSchedule,
			Run: func(ctx context.Context) error {
				return a.PublishDay(ctx, a.Today(), false)
			},
		},
		{
			Name: "publish-results",
			Spec: a.Config.CronResults,
			Run: func(ctx context.Context) error {
				return a.PublishDay(ctx, a.Today().AddDate(0, 0, -1), false)
			},
		},
		{
			Name:    "review-sweep",
			Spec:    a.Config.CronSweep,
			Timeout: 2 * time.Hour,
			Run: func(ctx context.Context) error {
				report, err := a.Sweep(ctx, a.Today().AddDate(0, 0, -1))
				if err != nil {
					return err
				}
				if failing := report.Failing(); len(failing) > 0 {
					a.Logger.WarnContext(ctx, "sweep found wrong outcomes", "run_id", report.RunID, "failing", len(failing))
				}
				return nil
			},
		},
	}
}
