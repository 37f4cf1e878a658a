// Package aggregate computes dashboard metrics from normalized records.
package aggregate

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithForecastMultipliers sets the low/medium/high scenario multipliers.
// Values are reordered if needed so low <= medium <= high always holds.
func WithForecastMultipliers(low, medium, high float64) Option {
	return func(b *Builder) {
		if low > 0 && medium > 0 && high > 0 {
			b.lowMult = low
			b.medMult = medium
			b.highMult = high
		}
	}
}

// WithTrendMonths sets how many trailing months feed the forecast's
// moving average.
func WithTrendMonths(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.trendMonths = n
		}
	}
}

// WithForecastHorizon sets how many months forward the forecast projects.
func WithForecastHorizon(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.horizonMonths = n
		}
	}
}
