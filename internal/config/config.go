// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LeadCSVURL and RentalCSVURL point at the published sheet exports.
	LeadCSVURL   string `koanf:"lead_csv_url"`
	RentalCSVURL string `koanf:"rental_csv_url"`

	// RefreshMinutes is the periodic refresh interval.
	RefreshMinutes int `koanf:"refresh_minutes"`

	// FetchTimeoutSeconds bounds each CSV download.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// Forecast scenario multipliers applied to the trailing revenue trend.
	// Only low <= medium <= high is contractual; values are configuration.
	ForecastLow    float64 `koanf:"forecast_low"`
	ForecastMedium float64 `koanf:"forecast_medium"`
	ForecastHigh   float64 `koanf:"forecast_high"`

	// ForecastTrendMonths is how many trailing months feed the projection.
	ForecastTrendMonths int `koanf:"forecast_trend_months"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		RefreshMinutes:      15,
		FetchTimeoutSeconds: 30,
		ForecastLow:         0.75,
		ForecastMedium:      1.0,
		ForecastHigh:        1.25,
		ForecastTrendMonths: 3,
	}
}
