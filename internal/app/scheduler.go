package app

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/folio/internal/common"
)

// Scheduler runs named background jobs on cron specs. Specs use the
// standard five fields or descriptors such as "@every 15m".
type Scheduler struct {
	cron    *cron.Cron
	baseCtx context.Context
	logger  *common.Logger
}

// NewScheduler creates a stopped scheduler whose jobs receive baseCtx.
func NewScheduler(baseCtx context.Context, logger *common.Logger) *Scheduler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		baseCtx: baseCtx,
		logger:  logger,
	}
}

// Add registers job under spec.
func (s *Scheduler) Add(spec, name string, job func(context.Context)) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, func() {
		s.logger.Debug().Str("job", name).Msg("Scheduled job starting")
		job(s.baseCtx)
	})
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}
