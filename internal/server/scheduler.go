package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher repeats the last forecast refresh.
type Refresher interface {
	RefreshLast(ctx context.Context) (*forecast.Result, error)
}

// Scheduler re-runs the last forecast on a cron schedule so new orders show
// up without a request.
type Scheduler struct {
	logger *zap.Logger
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler registers a periodic refresh under spec, a standard five
// field cron expression.
func NewScheduler(logger *zap.Logger, spec string, refresher Refresher) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		logger: logger,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.run(refresher) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run(refresher Refresher) {
	result, err := refresher.RefreshLast(s.ctx)
	switch {
	case errors.Is(err, forecast.ErrNoResult):
		s.logger.Debug("no forecast requested yet, skipping scheduled refresh",
			zap.String("op", "server.Scheduler.run"),
		)
	case errors.Is(err, forecast.ErrStaleResult), errors.Is(err, context.Canceled):
		s.logger.Debug("scheduled refresh superseded",
			zap.String("op", "server.Scheduler.run"),
		)
	case err != nil:
		s.logger.Error("scheduled refresh failed",
			zap.String("op", "server.Scheduler.run"),
			zap.Error(err),
		)
	default:
		s.logger.Info("scheduled refresh completed",
			zap.String("op", "server.Scheduler.run"),
			zap.String("status", string(result.Status)),
			zap.Uint64("generation", result.Generation),
		)
	}
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule, cancels a running refresh and waits for it.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
