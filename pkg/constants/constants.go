// Package constants provides shared constants for the biomass-estimator application.
package constants

// Financial constants
const (
	// CurrencySymbol prefixes every rendered monetary amount.
	CurrencySymbol = "₹"

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Export section constants name the tables that can be exported on their own.
const (
	SectionFactory  = "factory"
	SectionRisk     = "risk"
	SectionCarbon   = "carbon"
	SectionScenario = "scenario"
	SectionCatalog  = "catalog"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variables read by the binaries.
	EnvPrefix = "BIOMASS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// SessionCookieName is the cookie carrying the signed session.
	SessionCookieName = "biomass_session"
)

// Input bounds mirror the ranges of the dashboard's input widgets. Values outside
// them are still computed but produce configuration warnings.
const (
	MinTonsPerDay = 1
	MaxTonsPerDay = 10

	MinDistanceKm = 10
	MaxDistanceKm = 500

	MinTransportTons = 1
	MaxTransportTons = 50

	MinCarbonMonthlyTons = 10
	MaxCarbonMonthlyTons = 100

	MinScenarioTons = 10
	MaxScenarioTons = 100

	MinManualGCV = 1500
	MaxManualGCV = 6000
)
