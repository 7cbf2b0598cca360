// Package orders loads the historical order snapshot a forecast is computed
// from. Orders are read-only to the forecast engine.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Order is a sale as recorded by the order-management system.
type Order struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Total     decimal.Decimal `json:"total"`
	LineItems []LineItem      `json:"lineItems,omitempty"`
}

// LineItem is one product line of an order.
type LineItem struct {
	ProductName string `json:"productName"`
	Category    string `json:"category"`
	Quantity    int64  `json:"quantity"`
}

// Source fetches the orders of a date range.
type Source interface {
	Fetch(ctx context.Context, r datetime.Range) ([]Order, error)
}

// NewSource builds the Source selected by the configuration.
func NewSource(logger *zap.Logger, conf config.OrdersConfig, loc *time.Location) (Source, error) {
	switch conf.Driver {
	case constants.OrderDriverFile, "":
		if conf.Path == "" {
			return nil, fmt.Errorf("orders driver %q requires a path", constants.OrderDriverFile)
		}
		return NewFileSource(logger, conf.Path, loc), nil
	case constants.OrderDriverPostgres:
		return OpenPostgresSource(logger, conf.DSN, loc)
	default:
		return nil, fmt.Errorf("unknown orders driver %q", conf.Driver)
	}
}
