package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/injex/config"
	"github.com/kbukum/injex/di"
	"github.com/kbukum/injex/logger"
	"github.com/kbukum/injex/observability"
	"github.com/kbukum/injex/version"
)

// App is the composition root of a service built around an injex registry.
// The type parameter C is the config type, which must satisfy the Config interface.
// Any struct embedding config.Config automatically satisfies Config.
//
// Example:
//
//	app, err := bootstrap.NewApp(&myConfig)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    return a.Registry.Register(di.Name("mailer"), NewMailer(a.Cfg.Mail))
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name     string
	Version  string
	Cfg      C
	Registry *di.Registry
	Logger   *logger.Logger
	Metrics  *observability.Metrics
	Summary  *Summary

	tracer          trace.Tracer
	shutdowns       []func(context.Context) error
	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, initializes the logger and
// telemetry, builds the registry, registers the core entries (see di.Core)
// and installs the registry as di.Global unless WithoutGlobal is given.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetConfig()
	build := version.Get()
	if base.Version == "" {
		base.Version = build.String()
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging, base.Name)
		app.Logger = logger.GetGlobalLogger()
	}
	logger.RegisterComponents(app.Logger, logger.ComponentDI, logger.ComponentConfig, logger.ComponentTelemetry)

	if err := app.setupTelemetry(context.Background(), base); err != nil {
		return nil, err
	}

	if o.registry != nil {
		app.Registry = o.registry
	} else {
		app.Registry = app.newRegistry(base)
	}

	if err := app.registerCore(build); err != nil {
		_ = app.shutdownTelemetry(context.Background())
		return nil, fmt.Errorf("registering core dependencies: %w", err)
	}

	if !o.withoutGlobal {
		if err := di.SetGlobal(app.Registry); err != nil {
			_ = app.shutdownTelemetry(context.Background())
			return nil, fmt.Errorf("installing global registry: %w", err)
		}
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// Load reads the configuration of serviceName with config.LoadConfig and
// creates the application from it.
func Load(serviceName string, opts ...Option) (*App[*config.Config], error) {
	return LoadInto(serviceName, &config.Config{}, opts...)
}

// LoadInto is Load for a custom config type. An empty name in the loaded
// config defaults to serviceName.
func LoadInto[C Config](serviceName string, cfg C, opts ...Option) (*App[C], error) {
	o := resolveOptions(opts)
	loaderOpts := o.loaderOpts
	if o.logger != nil {
		loaderOpts = append([]config.LoaderOption{config.WithLogger(o.logger.WithComponent(logger.ComponentConfig))}, loaderOpts...)
	}
	if err := config.LoadConfig(serviceName, cfg, loaderOpts...); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if base := cfg.GetConfig(); base.Name == "" {
		base.Name = serviceName
	}
	return NewApp(cfg, opts...)
}

func (a *App[C]) newRegistry(base *config.Config) *di.Registry {
	opts := []di.RegistryOption{
		di.WithName(base.Registry.Name),
		di.WithLogger(logger.Get(logger.ComponentDI)),
	}
	if a.Metrics != nil {
		opts = append(opts, di.WithMetrics(a.Metrics))
	}
	if a.tracer != nil {
		opts = append(opts, di.WithTracer(a.tracer))
	}
	return di.New(opts...)
}

// registerCore makes the application's infrastructure resolvable.
func (a *App[C]) registerCore(build version.Info) error {
	if err := a.Registry.Register(di.Core.Config, a.Cfg); err != nil {
		return err
	}
	if err := a.Registry.Register(di.Core.Version, build); err != nil {
		return err
	}
	if err := a.Registry.Register(di.Core.Logger, a.Logger); err != nil {
		return err
	}
	if err := a.Registry.Register(di.Core.Registry, a.Registry); err != nil {
		return err
	}
	if a.Metrics != nil {
		if err := a.Registry.Register(di.Core.Metrics, a.Metrics); err != nil {
			return err
		}
	}
	if a.tracer != nil {
		if err := a.Registry.Register(di.Core.Tracer, a.tracer); err != nil {
			return err
		}
	}
	return nil
}

// OnConfigure registers a callback to run during the configure phase.
// Use this to register business-layer dependencies.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// Run executes the full application lifecycle for long-running services:
// OnStart hooks → Configure → OnReady hooks → Block on signal →
// OnStop hooks → Telemetry flush.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	// Block until shutdown signal
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop(context.Background())
}

// RunTask executes a finite task with the full bootstrap lifecycle.
// Unlike Run(), it does not block on shutdown signals: it runs the task
// function and gracefully shuts down when the task completes or the context
// is canceled (e.g., via SIGINT/SIGTERM).
//
// Example:
//
//	app, _ := bootstrap.NewApp(&cfg)
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    mailer := di.MustResolve[*Mailer](app.Registry, di.Name("mailer"))
//	    return mailer.SendDigest(ctx)
//	})
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	// Set up signal-based cancellation for the task
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(context.Background()); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}

	return taskErr
}

// startup performs the common initialization sequence shared by Run and RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":     a.Name,
		"version":  a.Version,
		"registry": a.Registry.Name(),
	})

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()

	return nil
}

// DisplaySummary prints the startup summary with the registry's entries.
func (a *App[C]) DisplaySummary() {
	a.Summary.DisplaySummary(a.Registry)
}

// configure runs registered configuration callbacks.
func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Info("Running configuration callbacks", map[string]interface{}{
		"count": len(a.onConfigure),
	})

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}

	a.Logger.Info("Configuration complete", map[string]interface{}{
		"registrations": len(a.Registry.Registrations()),
	})
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop(ctx)
}

// stop runs OnStop hooks and flushes telemetry within the graceful timeout.
func (a *App[C]) stop(parent context.Context) error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(parent, a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("stop", err))
		shutdownErr = err
	}

	if err := a.shutdownTelemetry(ctx); err != nil {
		a.Logger.WithError(err).Error("Telemetry shutdown error", logger.Fields(logger.FieldOperation, "telemetry_shutdown"))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
