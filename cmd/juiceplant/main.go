// Command juiceplant runs a set of juice plants for a fixed time and prints
// how many oranges were provided, processed, bottled and wasted.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/juiceplant/bootstrap"
	"github.com/kbukum/juiceplant/component"
	"github.com/kbukum/juiceplant/config"
	"github.com/kbukum/juiceplant/farm"
	"github.com/kbukum/juiceplant/logger"
	"github.com/kbukum/juiceplant/observability"
	"github.com/kbukum/juiceplant/server"
	"github.com/kbukum/juiceplant/version"
)

const serviceName = "juiceplant"

func main() {
	configFile := flag.String("config", "", "path to config.yml")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		return
	}

	var cfg Config
	if err := config.Load(serviceName, &cfg, config.WithConfigFile(*configFile)); err != nil {
		fmt.Fprintf(os.Stderr, "juiceplant: %v\n", err)
		os.Exit(1)
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	if err := run(context.Background(), &cfg, os.Stdout); err != nil {
		logger.Error("juiceplant failed", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}

// run wires the application and prints the farm report to out.
func run(ctx context.Context, cfg *Config, out io.Writer) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

	f, err := farm.New(cfg.Farm, farm.WithLogger(app.Logger.WithComponent("farm")))
	if err != nil {
		return err
	}

	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, app.Logger)
		srv.RegisterEndpoints(cfg.Name, healthChecker(app.Components, f), f.Plants)
		if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
			return err
		}
	}

	var report *farm.Report
	err = app.RunTask(ctx, func(ctx context.Context) error {
		var runErr error
		report, runErr = f.Run(ctx)
		return runErr
	})
	if report != nil {
		fmt.Fprintln(out, report)
	}
	return err
}

// healthChecker reports the registered components followed by every plant.
func healthChecker(r *component.Registry, f *farm.Farm) func(ctx context.Context) []component.Health {
	return func(ctx context.Context) []component.Health {
		out := r.HealthAll(ctx)
		for _, p := range f.Plants() {
			out = append(out, p.Health(ctx))
		}
		return out
	}
}
