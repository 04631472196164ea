package bootstrap

import (
	"time"

	"github.com/kbukum/injex/config"
	"github.com/kbukum/injex/di"
	"github.com/kbukum/injex/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	registry        *di.Registry
	withoutGlobal   bool
	gracefulTimeout *time.Duration
	loaderOpts      []config.LoaderOption
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is auto-initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithRegistry uses r instead of building a registry from the config.
func WithRegistry(r *di.Registry) Option {
	return func(o *appOptions) {
		o.registry = r
	}
}

// WithoutGlobal keeps the application's registry out of di.Global.
func WithoutGlobal() Option {
	return func(o *appOptions) {
		o.withoutGlobal = true
	}
}

// WithLoaderOptions passes options to config.LoadConfig in Load and LoadInto.
func WithLoaderOptions(opts ...config.LoaderOption) Option {
	return func(o *appOptions) {
		o.loaderOpts = append(o.loaderOpts, opts...)
	}
}
