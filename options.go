package unimath

import "log/slog"

// Option configures a Converter.
type Option func(*Converter)

// WithRegistry replaces the built-in post-processing rules. The registry
// is used as is, so later changes to it are seen by the converter.
func WithRegistry(r *Registry) Option {
	return func(c *Converter) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets the logger used for rule failures, fallbacks and the
// debug trace (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxPasses bounds how often the post-processor re-runs its rules for
// this converter only. Without it the registry's own bound applies
// (default: DefaultMaxPasses).
func WithMaxPasses(n int) Option {
	return func(c *Converter) {
		c.maxPasses = n
	}
}

// WithInputHygiene runs RemoveWordSpaces and NormalizeLatexStr on the markup
// before parsing (default: false).
func WithInputHygiene(enabled bool) Option {
	return func(c *Converter) {
		c.inputHygiene = enabled
	}
}
