// Package bootstrap is the composition root for injex services.
//
// It loads and validates configuration, initializes logging and optional
// OTLP telemetry, builds the dependency registry and runs startup and
// shutdown hooks.
//
// # Quick Start
//
//	app, err := bootstrap.Load("my-service")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*config.Config]) error {
//	    _, err := di.RegisterInstance(a.Registry, NewMailerFromConfig)
//	    return err
//	})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The registry is installed as di.Global unless WithoutGlobal is given, and
// holds the config, logger and registry itself under the names in di.Core.
package bootstrap
