// Package app holds the fx wiring shared by the storefront and cartworker binaries.
package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery"
	logs "github.com/lsegpor/Forniture4U-sub000/internal/infra/log"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Infra provides configuration, the root logger, metrics and the base context.
var Infra = fx.Module("infra",
	fx.Provide(
		config.New,
		logs.New,
		metrics.New,
		context.Background,
	),
)

// EventLogger routes fx's own lifecycle events through the application logger.
func EventLogger(logger *slog.Logger) fxevent.Logger {
	l := &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
	l.UseLogLevel(slog.LevelDebug)

	return l
}

// AsDelivery annotates a server constructor for the deliveries group.
func AsDelivery(constructor any) fx.Option {
	return fx.Provide(
		fx.Annotate(constructor, fx.ResultTags(`group:"deliveries"`)),
	)
}

type serveParams struct {
	fx.In
	fx.Shutdowner

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

// Serve starts every delivery in its own goroutine. A delivery that fails
// shuts the app down with exit code 1 so OnStop hooks still run.
func Serve(ctx context.Context, params serveParams) {
	for _, d := range params.Deliveries {
		go func() {
			err := d.Serve(ctx)
			if err == nil {
				return
			}

			params.Logger.Error("Delivery stopped with error", slog.Any("error", err))
			if shutdownErr := params.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
				params.Logger.Error("Failed to shut down", slog.Any("error", shutdownErr))
				os.Exit(1)
			}
		}()
	}
}

// Options bundles Infra, fx event logging and Serve around the binary's own modules.
func Options(modules ...fx.Option) fx.Option {
	return fx.Options(
		Infra,
		fx.WithLogger(EventLogger),
		fx.Options(modules...),
		fx.Invoke(Serve),
	)
}
