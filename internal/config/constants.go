package config

// Application constants
const (
	// Application Info
	AppName    = "unihousing"
	AppVersion = "1.0.0"

	// EnvPrefix is the prefix of every environment override, e.g.
	// UNIHOUSING_ANALYSIS_ALPHA.
	EnvPrefix = "UNIHOUSING"

	// Default input files, relative to the working directory
	DefaultTownsFile   = "university_towns.txt"
	DefaultGDPFile     = "gdplev.xlsx"
	DefaultHousingFile = "City_Zhvi_AllHomes.csv"

	// Report files written under Output.Dir
	QuarterlyHousingFile = "quarterly_housing.csv"
	PriceRatiosFile      = "price_ratios.csv"
	ResultFile           = "ttest_result.json"
	MetricsFile          = "unihousing.prom"

	// Decision threshold for the two-tailed p-value
	DefaultAlpha = 0.01
)

// Variance assumptions for the two-sample t-test
const (
	VariancePooled = "pooled"
	VarianceWelch  = "welch"
)

// Recession end detection rules
const (
	EndRuleMinimumGap = "minimum-gap"
	EndRuleLargestGap = "largest-gap"
)
