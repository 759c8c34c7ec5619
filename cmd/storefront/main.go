package main

import (
	"github.com/lsegpor/Forniture4U-sub000/internal/app"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/middleware"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/router/handler"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/auth"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/catalog"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/orders"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/persistence"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/pubsub"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase"
	"github.com/lsegpor/Forniture4U-sub000/internal/usecase/impl"

	"go.uber.org/fx"
)

func main() {
	fx.New(app.Options(
		storage(),
		services(),
		carts(),
		httpFront(),
	)).Run()
}

func storage() fx.Option {
	return fx.Module("storage",
		fx.Provide(persistence.New),
	)
}

func services() fx.Option {
	return fx.Module("services",
		fx.Provide(
			auth.NewJWTService,
			auth.NewCredentialsFactory,
			catalog.NewStockService,
			orders.NewOrderService,
		),
		pubsub.Module,
	)
}

func carts() fx.Option {
	return fx.Module("carts",
		fx.Provide(impl.NewCartSessionRegistry),
		fx.Invoke(func(m *metrics.Metrics, sessions usecase.CartSessionUsecase) {
			m.RegisterSessionGauge(sessions.Len)
		}),
	)
}

func httpFront() fx.Option {
	return fx.Module("http",
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewCartSessionMiddleware,
			handler.NewCartHandler,
			handler.NewSessionHandler,
		),
		app.AsDelivery(http.NewServer),
	)
}
