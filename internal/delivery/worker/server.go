// Package worker receives cart events pushed by the event bus.
package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/middleware"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/worker/handler"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/lifecycle"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

// PushPath is where push subscriptions deliver cart events.
const PushPath = "/push"

type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Metrics `optional:"true"`
	PushHandler *handler.PushHandler
}

type workerServer struct {
	addr   string
	logger *slog.Logger
	echo   *echo.Echo
}

// NewServer builds the worker's echo server and stops it with the fx app.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	if params.Cfg.Worker == nil {
		return nil, errors.New("worker section is not configured")
	}

	srv := &workerServer{
		addr:   net.JoinHostPort("0.0.0.0", strconv.Itoa(params.Cfg.Worker.Port)),
		logger: params.Logger.With(slog.String("component", "cartworker")),
		echo:   NewEcho(params.Cfg, params.Logger, params.Metrics, params.PushHandler),
	}
	params.Lc.Append(fx.StopHook(srv.stop))

	return srv, nil
}

// NewEcho wires the push route behind recover, request id, metrics and access logging.
func NewEcho(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, push *handler.PushHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = cfg.HTTP.Timeouts.ReadHeaderTimeout
	e.Server.IdleTimeout = cfg.HTTP.Timeouts.IdleTimeout

	e.Use(
		echomiddleware.Recover(),
		middleware.NewRequestIDMiddleware(logger).Process,
	)
	if m != nil {
		e.Use(middleware.NewMetricsMiddleware(m).Handle)
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	e.Use(middleware.NewLoggerMiddleware(logger, cfg).Handle)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.POST(PushPath, push.HandlePush)

	return e
}

func (s *workerServer) Serve(context.Context) error {
	s.logger.Info("Listening for pushed cart events", slog.String("addr", s.addr), slog.String("path", PushPath))

	err := s.echo.Start(s.addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return errors.WithStack(err)
}

func (s *workerServer) stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Draining pushed cart events")

	return errors.WithStack(s.echo.Shutdown(ctx))
}
