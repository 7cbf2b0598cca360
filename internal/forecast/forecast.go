// Package forecast defines the data structures related to a sales projection
// and includes functions for computing it from a snapshot of historical orders.
package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/internal/orders"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"go.uber.org/zap"
)

// Status tells the presentation layer whether a result has data.
type Status string

const (
	// StatusOK is a computed result, possibly with zero actuals.
	StatusOK Status = "ok"
	// StatusNoData is an empty result published after a failed fetch.
	StatusNoData Status = "no_data"
)

// NoDataMessage is the neutral message shown with an empty result.
const NoDataMessage = "No order data is available for the selected range."

// Options carries the presentation settings of a computation.
type Options struct {
	Location *time.Location
	Locale   string
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Locale == "" {
		o.Locale = constants.DefaultLocale
	}
	return o
}

// Result holds everything derived from one computation. A Result is never
// modified after it is returned.
type Result struct {
	Scenario      string             `json:"scenario"`
	Status        Status             `json:"status"`
	Message       string             `json:"message,omitempty"`
	Mode          Mode               `json:"mode"`
	Start         string             `json:"start"`
	End           string             `json:"end"`
	Trend         []Bucket           `json:"trend"`
	Products      []ProductAggregate `json:"products"`
	Summary       Summary            `json:"summary"`
	Warnings      []string           `json:"warnings,omitempty"`
	SkippedOrders int                `json:"skippedOrders"`
	DroppedOrders int                `json:"droppedOrders"`
	Generation    uint64             `json:"generation,omitempty"`
	Token         string             `json:"token,omitempty"`
}

// Compute runs the whole pipeline: bucketing, aggregation, projection,
// product rollup and summary. It is pure: the same inputs always produce
// the same Result.
func Compute(logger *zap.Logger, scenario config.Scenario, snapshot []orders.Order, r datetime.Range, opts Options) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	if r.End.Before(r.Start) {
		return nil, fmt.Errorf("%w: %s", datetime.ErrInvalidRange, r)
	}

	mode, buckets := BuildBuckets(r, opts.Location, opts.Locale)

	// Products only count orders of the range; Aggregate drops the rest on
	// its own, but the rollup has no buckets to filter with.
	inRange := make([]orders.Order, 0, len(snapshot))
	outside := 0
	for _, order := range snapshot {
		if order.Date.IsZero() || r.Contains(order.Date, opts.Location) {
			inRange = append(inRange, order)
		} else {
			outside++
		}
	}

	skipped, dropped := Aggregate(logger, buckets, mode, inRange, opts.Location)
	dropped += outside

	warnings := Project(buckets, mode, scenario)

	valid := inRange[:0:0]
	for _, order := range inRange {
		if !order.Date.IsZero() {
			valid = append(valid, order)
		}
	}
	products, productWarnings := RollupProducts(logger, valid, scenario.MonthlyGrowthPercent)
	warnings = append(warnings, productWarnings...)

	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d orders without a date were excluded", skipped))
	}
	if dropped > 0 {
		logger.Debug("orders outside the requested range were dropped",
			zap.String("op", "forecast.Compute"),
			zap.Int("dropped", dropped),
		)
	}

	result := &Result{
		Scenario:      scenario.Name,
		Status:        StatusOK,
		Mode:          mode,
		Start:         r.Start.Format(constants.DateLayout),
		End:           r.End.Format(constants.DateLayout),
		Trend:         buckets,
		Products:      products,
		Summary:       Summarize(buckets, products, scenario),
		Warnings:      warnings,
		SkippedOrders: skipped,
		DroppedOrders: dropped,
	}

	logger.Debug("forecast computed",
		zap.String("op", "forecast.Compute"),
		zap.String("scenario", scenario.Name),
		zap.String("mode", string(mode)),
		zap.Int("buckets", len(buckets)),
		zap.Int("products", len(products)),
		zap.Int("orders", len(valid)),
	)
	return result, nil
}

// NoData builds the empty result published when orders cannot be fetched.
func NoData(scenario config.Scenario, r datetime.Range) *Result {
	return &Result{
		Scenario: scenario.Name,
		Status:   StatusNoData,
		Message:  NoDataMessage,
		Mode:     ModeFor(r),
		Start:    r.Start.Format(constants.DateLayout),
		End:      r.End.Format(constants.DateLayout),
		Trend:    []Bucket{},
		Products: []ProductAggregate{},
	}
}
