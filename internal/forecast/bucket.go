package forecast

import (
	"time"

	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/shopspring/decimal"
)

// Mode is the granularity of a trend series.
type Mode string

const (
	// ModeDaily buckets one calendar day each.
	ModeDaily Mode = "daily"
	// ModeMonthly buckets one calendar month each.
	ModeMonthly Mode = "monthly"
)

// Bucket is one time slice of the trend series.
type Bucket struct {
	Label            string    `json:"label"`
	SortKey          string    `json:"sortKey"`
	Key              string    `json:"key"`
	Year             int       `json:"year"`
	MonthIndex       int       `json:"monthIndex"`
	Start            time.Time `json:"start"`
	ActualRevenue    float64   `json:"actualRevenue"`
	ProjectedRevenue float64   `json:"projectedRevenue"`

	actual    decimal.Decimal
	projected float64
}

// ModeFor picks the granularity for a range: daily up to
// constants.DailyBucketMaxDays days between start and end, monthly beyond.
func ModeFor(r datetime.Range) Mode {
	if r.Days() <= constants.DailyBucketMaxDays {
		return ModeDaily
	}
	return ModeMonthly
}

// BucketKey returns the key of the bucket t belongs to under mode, using the
// calendar fields of t in loc.
func BucketKey(t time.Time, mode Mode, loc *time.Location) string {
	if mode == ModeDaily {
		return datetime.DayKey(t, loc)
	}
	return datetime.MonthKey(t, loc)
}

// BuildBuckets partitions r into empty, ordered buckets with no gaps.
func BuildBuckets(r datetime.Range, loc *time.Location, locale string) (Mode, []Bucket) {
	if loc == nil {
		loc = time.Local
	}
	mode := ModeFor(r)
	start := r.Start.In(loc)

	var buckets []Bucket
	switch mode {
	case ModeDaily:
		days := r.Days()
		buckets = make([]Bucket, 0, days+1)
		for i := 0; i <= days; i++ {
			day := time.Date(start.Year(), start.Month(), start.Day()+i, 0, 0, 0, 0, loc)
			buckets = append(buckets, newBucket(day, datetime.DayLabel(day), datetime.DayKey(day, loc)))
		}
	case ModeMonthly:
		first := datetime.StartOfMonth(r.Start, loc)
		last := datetime.StartOfMonth(r.End, loc)
		for i := 0; ; i++ {
			month := time.Date(first.Year(), first.Month()+time.Month(i), 1, 0, 0, 0, 0, loc)
			if month.After(last) {
				break
			}
			buckets = append(buckets, newBucket(month, datetime.MonthLabel(month, locale), datetime.MonthKey(month, loc)))
		}
	}
	return mode, buckets
}

func newBucket(start time.Time, label, key string) Bucket {
	return Bucket{
		Label:      label,
		SortKey:    start.Format(constants.DayKeyLayout),
		Key:        key,
		Year:       start.Year(),
		MonthIndex: datetime.MonthIndex(start),
		Start:      start,
		actual:     decimal.Zero,
	}
}
