// Package bootstrap runs a service through its lifecycle: start registered
// components, run configure callbacks and hooks, print the startup summary,
// wait for a shutdown signal, then stop everything in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(kafkaComponent)
//	app.RegisterComponent(serverComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    // wire handlers and listeners
//	    return nil
//	})
//	err = app.Run(ctx)
package bootstrap
