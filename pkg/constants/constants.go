// Package constants provides shared constants for the sales-forecast application.
package constants

// DateLayout is the format expected for range bounds in config files, CLI flags
// and query parameters.
const DateLayout = "2006-01-02"

// Bucket key and label layouts.
const (
	// DayKeyLayout keys a daily bucket.
	DayKeyLayout = "2006-01-02"

	// DayLabelLayout labels a daily bucket (DD/MM).
	DayLabelLayout = "02/01"
)

// Forecast constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DailyBucketMaxDays is the widest range, in days between start and end,
	// that is still bucketed per day. Anything wider is bucketed per month.
	DailyBucketMaxDays = 60

	// DecimalPlaces is the number of decimals kept for currency values
	DecimalPlaces = 2

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// GrowthLabelUnavailable is shown for a product growth label that cannot be
	// computed because the product has no actual units.
	GrowthLabelUnavailable = "n/a"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX is the spreadsheet output format
	OutputFormatXLSX = "xlsx"

	// DefaultXLSXFile is where the workbook is written when no file is configured
	DefaultXLSXFile = "forecast.xlsx"
)

// Order source drivers
const (
	// OrderDriverFile reads orders from a YAML or JSON file
	OrderDriverFile = "file"

	// OrderDriverPostgres reads orders from PostgreSQL
	OrderDriverPostgres = "postgres"
)

// Locales supported for month labels
const (
	LocaleEnglish = "en"
	LocaleSpanish = "es"

	// DefaultLocale is used when the configuration leaves the locale unset
	DefaultLocale = LocaleSpanish
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultEnvFile is loaded into the environment before the configuration
	DefaultEnvFile = ".env"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
