// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/middleware"
	"github.com/lsegpor/Forniture4U-sub000/internal/delivery/http/router/handler"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CartHandler           *handler.CartHandler
	SessionHandler        *handler.SessionHandler
	AuthMiddleware        *middleware.AuthMiddleware
	CartSessionMiddleware *middleware.CartSessionMiddleware
	Metrics               *metrics.Metrics `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	cartHandler           *handler.CartHandler
	sessionHandler        *handler.SessionHandler
	authMiddleware        *middleware.AuthMiddleware
	cartSessionMiddleware *middleware.CartSessionMiddleware
	metrics               *metrics.Metrics
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cartHandler:           params.CartHandler,
		sessionHandler:        params.SessionHandler,
		authMiddleware:        params.AuthMiddleware,
		cartSessionMiddleware: params.CartSessionMiddleware,
		metrics:               params.Metrics,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	if r.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))
	}

	// Every cart route acts on the client's session
	cartGroup := e.Group("/cart", r.cartSessionMiddleware.Resolve)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.DELETE("", r.cartHandler.ClearCart)
		cartGroup.GET("/demand", r.cartHandler.GetComponentDemand)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.POST("/items/validate", r.cartHandler.ValidateItem)
		cartGroup.GET("/items/:type/:id", r.cartHandler.HasItem)
		cartGroup.PATCH("/items/:type/:id", r.cartHandler.UpdateQuantity)
		cartGroup.DELETE("/items/:type/:id", r.cartHandler.RemoveItem)
	}

	sessionGroup := e.Group("/session", r.cartSessionMiddleware.Resolve)
	{
		sessionGroup.POST("/login", r.sessionHandler.Login, r.authMiddleware.Authenticate)
		sessionGroup.POST("/register", r.sessionHandler.Register, r.authMiddleware.Authenticate)
		sessionGroup.POST("/logout", r.sessionHandler.Logout)
	}

	e.POST("/checkout", r.cartHandler.Checkout, r.cartSessionMiddleware.Resolve)
}
