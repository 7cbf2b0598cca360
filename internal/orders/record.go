package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/shopspring/decimal"
)

// ErrMissingTotal marks an order record without a total.
var ErrMissingTotal = errors.New("order has no total")

// record is an order as it arrives from a file or an API payload, before
// its date and total are validated.
type record struct {
	ID        string       `yaml:"id" json:"id"`
	Date      string       `yaml:"date" json:"date"`
	Total     interface{}  `yaml:"total" json:"total"`
	LineItems []lineRecord `yaml:"lineItems" json:"lineItems"`
}

type lineRecord struct {
	ProductName string      `yaml:"productName" json:"productName"`
	Category    string      `yaml:"category" json:"category"`
	Quantity    interface{} `yaml:"quantity" json:"quantity"`
}

// toOrder validates a record. An error means the record is a data error and
// must be left out of the snapshot.
func (r record) toOrder(loc *time.Location) (Order, error) {
	date, err := datetime.ParseTimestamp(r.Date, loc)
	if err != nil {
		return Order{}, fmt.Errorf("order %q: %w", r.ID, err)
	}
	total, err := parseDecimal(r.Total)
	if err != nil {
		return Order{}, fmt.Errorf("order %q: %w", r.ID, err)
	}

	order := Order{ID: r.ID, Date: date, Total: total}
	for _, line := range r.LineItems {
		name := strings.TrimSpace(line.ProductName)
		if name == "" {
			continue
		}
		qty, err := parseDecimal(line.Quantity)
		if err != nil {
			qty = decimal.Zero
		}
		order.LineItems = append(order.LineItems, LineItem{
			ProductName: name,
			Category:    strings.TrimSpace(line.Category),
			Quantity:    qty.IntPart(),
		})
	}
	return order, nil
}

// parseDecimal accepts the numeric shapes YAML and JSON decoders produce.
func parseDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, ErrMissingTotal
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint64:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.Zero, ErrMissingTotal
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount %q", v)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("invalid amount type %T", v)
	}
}
