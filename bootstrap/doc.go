// Package bootstrap runs an application's lifecycle: validated config,
// logger initialization, component start in registration order, hooks,
// signal handling and a bounded graceful shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(srv)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return runFarm(ctx)
//	})
package bootstrap
