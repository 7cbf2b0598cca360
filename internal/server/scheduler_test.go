package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/iwvelando/sales-forecast/internal/forecast"
	"go.uber.org/zap"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) RefreshLast(context.Context) (*forecast.Result, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &forecast.Result{Status: forecast.StatusOK, Generation: 1}, nil
}

func TestNewSchedulerInvalidSpec(t *testing.T) {
	if _, err := NewScheduler(zap.NewNop(), "not a schedule", &countingRefresher{}); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestSchedulerRun(t *testing.T) {
	errs := []error{nil, forecast.ErrNoResult, forecast.ErrStaleResult, errors.New("boom")}
	for _, err := range errs {
		refresher := &countingRefresher{err: err}
		s, newErr := NewScheduler(nil, "@every 1h", refresher)
		if newErr != nil {
			t.Fatalf("NewScheduler() error = %v", newErr)
		}
		s.run(refresher)
		if refresher.calls.Load() != 1 {
			t.Fatalf("expected one refresh, got %d", refresher.calls.Load())
		}
		s.Start()
		s.Stop()
	}
}
