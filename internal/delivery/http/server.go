// Package http serves the storefront cart API.
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery"
	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	httpmiddleware "github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/middleware"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/router"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/validator"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/middleware"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/lifecycle"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

const defaultBodyLimit = "1M"

type httpServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	Metrics      *metrics.Metrics `optional:"true"`
	RouterParams router.RouterParams
}

// NewServer builds the echo server and registers its shutdown hook.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	echoServer := NewEcho(params.Cfg, params.Logger, params.Metrics)

	r := router.NewRouter(params.RouterParams)
	r.RegisterRoutes(echoServer)

	srv := &httpServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: echoServer,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// NewEcho configures middleware, error handling and validation.
func NewEcho(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Server.ReadTimeout = cfg.HTTP.Timeouts.ReadTimeout
	echoServer.Server.ReadHeaderTimeout = cfg.HTTP.Timeouts.ReadHeaderTimeout
	echoServer.Server.WriteTimeout = cfg.HTTP.Timeouts.WriteTimeout
	echoServer.Server.IdleTimeout = cfg.HTTP.Timeouts.IdleTimeout

	// 1. Recover first to catch panics early
	echoServer.Use(echomiddleware.Recover())

	// 2. Request ID must run before anything that logs
	requestIDMiddleware := middleware.NewRequestIDMiddleware(logger)
	echoServer.Use(requestIDMiddleware.Process)

	// 3. Metrics see the status written by the error handler
	if m != nil {
		echoServer.Use(middleware.NewMetricsMiddleware(m).Handle)
	}

	// 4. Logger
	loggerMiddleware := middleware.NewLoggerMiddleware(logger, cfg)
	echoServer.Use(loggerMiddleware.Handle)

	// 5. CORS, exposing the session header to browsers
	sessionHeader := httpmiddleware.SessionHeader(cfg)
	echoServer.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
			sessionHeader, deliverycontext.HeaderXRequestID,
		},
		ExposeHeaders: []string{sessionHeader, deliverycontext.HeaderXRequestID},
	}))

	// 6. Request body size limit
	bodyLimit := cfg.HTTP.MaxRequestBodySize
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}
	echoServer.Use(echomiddleware.BodyLimit(bodyLimit))

	errorMiddleware := httpmiddleware.NewErrorMiddleware(logger)
	echoServer.HTTPErrorHandler = errorMiddleware.HandleHTTPError

	echoServer.Validator = validator.New()

	return echoServer
}

func (s *httpServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting storefront HTTP server", slog.String("host_port", hostPort))
	h2Server := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *httpServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down storefront HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
