package forecast

import (
	"time"

	"github.com/iwvelando/sales-forecast/internal/orders"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Aggregate adds each order's total into the bucket whose key matches the
// order's local date. Orders without a matching bucket are dropped and
// counted; orders without a date are data errors and counted as skipped.
// Sums are exact and only rounded into ActualRevenue at the end.
func Aggregate(logger *zap.Logger, buckets []Bucket, mode Mode, snapshot []orders.Order, loc *time.Location) (skipped, dropped int) {
	if logger == nil {
		logger = zap.NewNop()
	}

	index := make(map[string]int, len(buckets))
	for i := range buckets {
		index[buckets[i].Key] = i
	}

	for _, order := range snapshot {
		if order.Date.IsZero() {
			skipped++
			logger.Warn("order has no date, excluded from aggregation",
				zap.String("op", "forecast.Aggregate"),
				zap.String("order", order.ID),
			)
			continue
		}
		key := BucketKey(order.Date, mode, loc)
		i, ok := index[key]
		if !ok {
			dropped++
			logger.Debug("order outside bucket range",
				zap.String("op", "forecast.Aggregate"),
				zap.String("order", order.ID),
				zap.String("key", key),
			)
			continue
		}
		buckets[i].actual = buckets[i].actual.Add(order.Total)
	}

	for i := range buckets {
		buckets[i].ActualRevenue = buckets[i].actual.Round(constants.DecimalPlaces).InexactFloat64()
	}
	return skipped, dropped
}
