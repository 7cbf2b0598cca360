package forecast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/internal/orders"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"go.uber.org/zap"
)

var (
	// ErrStaleResult is returned by Refresh when a newer refresh started
	// before this one finished. The stale result is discarded.
	ErrStaleResult = errors.New("forecast superseded by a newer request")

	// ErrNoResult is returned when nothing has been refreshed yet.
	ErrNoResult = errors.New("no forecast has been computed yet")
)

// ScenarioProvider hands out the scenario a refresh should use.
type ScenarioProvider interface {
	Scenario() config.Scenario
}

// StaticScenario is a ScenarioProvider that always returns the same scenario.
type StaticScenario config.Scenario

// Scenario implements ScenarioProvider.
func (s StaticScenario) Scenario() config.Scenario {
	return config.Scenario(s).Clone()
}

// Runner fetches orders and recomputes the forecast whenever its inputs
// change. Every refresh takes a new generation; only the newest generation
// may publish, so a slow response can never overwrite a newer one.
type Runner struct {
	logger    *zap.Logger
	source    orders.Source
	scenarios ScenarioProvider
	opts      Options

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	latest     *Result
	lastRange  *datetime.Range
}

// NewRunner creates a Runner.
func NewRunner(logger *zap.Logger, source orders.Source, scenarios ScenarioProvider, opts Options) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger:    logger,
		source:    source,
		scenarios: scenarios,
		opts:      opts.withDefaults(),
	}
}

// Refresh fetches the orders of r, computes the forecast and publishes it.
// The previous in-flight refresh, if any, is cancelled. A failed fetch
// publishes a StatusNoData result instead of returning an error; no retry is
// attempted until the next Refresh.
func (rn *Runner) Refresh(ctx context.Context, r datetime.Range) (*Result, error) {
	if r.End.Before(r.Start) {
		return nil, fmt.Errorf("%w: %s", datetime.ErrInvalidRange, r)
	}

	rn.mu.Lock()
	rn.generation++
	gen := rn.generation
	if rn.cancel != nil {
		rn.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	rn.cancel = cancel
	last := r
	rn.lastRange = &last
	rn.mu.Unlock()
	defer cancel()

	token := uuid.NewString()
	scenario := rn.scenarios.Scenario()

	rn.logger.Debug("forecast refresh started",
		zap.String("op", "forecast.Runner.Refresh"),
		zap.Uint64("generation", gen),
		zap.String("token", token),
		zap.String("range", r.String()),
	)

	var result *Result
	snapshot, err := rn.source.Fetch(runCtx, r)
	if err != nil {
		if rn.superseded(gen) {
			return nil, ErrStaleResult
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		rn.logger.Warn("failed to fetch orders, publishing empty forecast",
			zap.String("op", "forecast.Runner.Refresh"),
			zap.Uint64("generation", gen),
			zap.String("token", token),
			zap.Error(err),
		)
		result = NoData(scenario, r)
	} else {
		result, err = Compute(rn.logger, scenario, snapshot, r, rn.opts)
		if err != nil {
			return nil, err
		}
	}
	result.Generation = gen
	result.Token = token

	rn.mu.Lock()
	defer rn.mu.Unlock()
	if gen != rn.generation {
		rn.logger.Debug("discarding stale forecast",
			zap.String("op", "forecast.Runner.Refresh"),
			zap.Uint64("generation", gen),
			zap.Uint64("current", rn.generation),
			zap.String("token", token),
		)
		return nil, ErrStaleResult
	}
	rn.latest = result
	return result, nil
}

// RefreshLast repeats the most recent refresh range with the current scenario.
func (rn *Runner) RefreshLast(ctx context.Context) (*Result, error) {
	rn.mu.Lock()
	last := rn.lastRange
	rn.mu.Unlock()
	if last == nil {
		return nil, ErrNoResult
	}
	return rn.Refresh(ctx, *last)
}

// Latest returns the newest published result.
func (rn *Runner) Latest() (*Result, error) {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	if rn.latest == nil {
		return nil, ErrNoResult
	}
	return rn.latest, nil
}

func (rn *Runner) superseded(gen uint64) bool {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	return gen != rn.generation
}
