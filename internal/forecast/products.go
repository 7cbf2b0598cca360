package forecast

import (
	"fmt"
	"sort"

	"github.com/iwvelando/sales-forecast/internal/orders"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/format"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductAggregate is the unit rollup of one product.
type ProductAggregate struct {
	Name               string `json:"name"`
	Category           string `json:"category"`
	ActualUnits        int64  `json:"actualUnits"`
	ProjectedUnits     int64  `json:"projectedUnits"`
	GrowthPercentLabel string `json:"growthPercentLabel"`
}

// RollupProducts sums line item quantities per product name and projects
// them with the global growth percentage only; seasonal adjustments and
// monthly goals do not apply at product level. The first category seen for a
// product is kept; later conflicting categories are reported as warnings.
// Output is sorted by actual units, descending, then by name.
func RollupProducts(logger *zap.Logger, snapshot []orders.Order, growthPercent float64) ([]ProductAggregate, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var warnings []string
	byName := make(map[string]*ProductAggregate)
	conflicts := make(map[string]bool)
	var names []string

	for _, order := range snapshot {
		for _, item := range order.LineItems {
			agg, ok := byName[item.ProductName]
			if !ok {
				agg = &ProductAggregate{Name: item.ProductName, Category: item.Category}
				byName[item.ProductName] = agg
				names = append(names, item.ProductName)
			} else if item.Category != agg.Category && !conflicts[item.ProductName] {
				conflicts[item.ProductName] = true
				msg := fmt.Sprintf("product '%s' has conflicting categories '%s' and '%s': keeping '%s'",
					item.ProductName, agg.Category, item.Category, agg.Category)
				warnings = append(warnings, msg)
				logger.Warn("inconsistent product category",
					zap.String("op", "forecast.RollupProducts"),
					zap.String("product", item.ProductName),
					zap.String("kept", agg.Category),
					zap.String("seen", item.Category),
					zap.String("order", order.ID),
				)
			}
			agg.ActualUnits += item.Quantity
		}
	}

	factor := decimal.NewFromFloat(growthPercent).Div(decimal.NewFromFloat(constants.PercentageMultiplier)).Add(decimal.NewFromInt(1))

	products := make([]ProductAggregate, 0, len(names))
	for _, name := range names {
		agg := byName[name]
		agg.ProjectedUnits = decimal.NewFromInt(agg.ActualUnits).Mul(factor).Ceil().IntPart()
		agg.GrowthPercentLabel = format.GrowthLabel(agg.ActualUnits, agg.ProjectedUnits)
		products = append(products, *agg)
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].ActualUnits != products[j].ActualUnits {
			return products[i].ActualUnits > products[j].ActualUnits
		}
		return products[i].Name < products[j].Name
	})

	return products, warnings
}
