// Package format renders percentage values for display.
package format

import (
	"math"
	"strconv"

	"github.com/iwvelando/sales-forecast/pkg/constants"
)

// SignedPercent renders a percentage with an explicit sign and at most one
// decimal, e.g. "+10%", "+12.5%", "-3%".
func SignedPercent(value float64) string {
	rounded := math.Round(value*10) / 10
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	text := strconv.FormatFloat(rounded, 'f', -1, 64)
	if rounded >= 0 {
		text = "+" + text
	}
	return text + "%"
}

// GrowthLabel renders the change from actual to projected units as a signed
// percentage. Products without actual units have no defined growth and get
// constants.GrowthLabelUnavailable.
func GrowthLabel(actual, projected int64) string {
	if actual == 0 {
		return constants.GrowthLabelUnavailable
	}
	return SignedPercent(float64(projected-actual) / float64(actual) * constants.PercentageMultiplier)
}
