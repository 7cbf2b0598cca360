// Package testutil provides common utility functions for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/sales-forecast/internal/orders"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/shopspring/decimal"
)

// Item builds a line item.
func Item(product, category string, quantity int64) orders.LineItem {
	return orders.LineItem{ProductName: product, Category: category, Quantity: quantity}
}

// Order builds an order dated midnight of date (YYYY-MM-DD) in loc with the
// given decimal total. It panics on malformed input, so use literals only.
func Order(id, date, total string, loc *time.Location, items ...orders.LineItem) orders.Order {
	return orders.Order{
		ID:        id,
		Date:      datetime.MustParseLocalDate(date, loc),
		Total:     decimal.RequireFromString(total),
		LineItems: items,
	}
}

// OrderAt builds an order at an exact instant.
func OrderAt(id string, at time.Time, total string, items ...orders.LineItem) orders.Order {
	return orders.Order{
		ID:        id,
		Date:      at,
		Total:     decimal.RequireFromString(total),
		LineItems: items,
	}
}

// Range builds an inclusive range from two YYYY-MM-DD literals in loc.
func Range(start, end string, loc *time.Location) datetime.Range {
	r, err := datetime.ParseRange(start, end, loc)
	if err != nil {
		panic(err)
	}
	return r
}
