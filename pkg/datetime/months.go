package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/constants"
)

var shortMonths = map[string][12]string{
	constants.LocaleEnglish: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	constants.LocaleSpanish: {"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"},
}

// SupportedLocale reports whether month labels exist for locale.
func SupportedLocale(locale string) bool {
	_, ok := shortMonths[normalizeLocale(locale)]
	return ok
}

// ShortMonth returns the abbreviated month name for a zero-based month index.
// Unknown locales fall back to the default locale.
func ShortMonth(monthIndex int, locale string) string {
	names, ok := shortMonths[normalizeLocale(locale)]
	if !ok {
		names = shortMonths[constants.DefaultLocale]
	}
	if monthIndex < 0 || monthIndex >= constants.MonthsPerYear {
		return ""
	}
	return names[monthIndex]
}

// MonthLabel labels a monthly bucket as "Mon YY".
func MonthLabel(t time.Time, locale string) string {
	return fmt.Sprintf("%s %02d", ShortMonth(MonthIndex(t), locale), t.Year()%100)
}

// DayLabel labels a daily bucket as "DD/MM".
func DayLabel(t time.Time) string {
	return t.Format(constants.DayLabelLayout)
}

// normalizeLocale reduces tags like "es-MX" or "en_US" to their language.
func normalizeLocale(locale string) string {
	lower := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(lower, "-_"); i > 0 {
		lower = lower[:i]
	}
	return lower
}
