package internal

import "io"

// Option configures the application before Run brings it up.
type Option func(*application)

// application collects everything Run needs that is not derived from
// the configuration itself.
type application struct {
	config    *Config
	logOutput io.Writer
}

// WithConfig supplies the loaded configuration. Run refuses to start
// without one.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogOutput redirects the JSON log stream, mainly for tests.
// Defaults to stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}
