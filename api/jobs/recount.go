package jobs

import (
	"context"
	"time"

	applog "github.com/rafa-porto/dev-connect/api/logger"
	"github.com/rafa-porto/dev-connect/api/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Recounter rebuilds denormalized counters from the edge tables.
type Recounter interface {
	RecountCounters(ctx context.Context) (int64, error)
}

// Scheduler runs background maintenance on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		log:     applog.Named("jobs"),
		timeout: 5 * time.Minute,
	}
}

// ScheduleRecount registers a counter recount on schedule (standard five-field cron syntax or
// descriptors such as "@hourly"). An empty schedule disables the job.
func (s *Scheduler) ScheduleRecount(schedule string, r Recounter) error {
	if schedule == "" {
		return nil
	}
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_, _ = RunRecount(ctx, r, s.log)
	})
	if err != nil {
		return err
	}
	s.log.Info("scheduled counter recount", zap.String("schedule", schedule))
	return nil
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunRecount performs one recount and records the run's outcome.
func RunRecount(ctx context.Context, r Recounter, log *zap.Logger) (int64, error) {
	start := time.Now()
	repaired, err := r.RecountCounters(ctx)
	if err != nil {
		metrics.RecountRuns.WithLabelValues("error").Inc()
		log.Error("counter recount failed", zap.Error(err))
		return 0, err
	}

	metrics.RecountRuns.WithLabelValues("ok").Inc()
	if repaired > 0 {
		log.Info("counter recount corrected drift",
			zap.Int64("rows", repaired),
			zap.Duration("took", time.Since(start)),
		)
	} else {
		log.Debug("counter recount found no drift", zap.Duration("took", time.Since(start)))
	}
	return repaired, nil
}
