// Package handler contains the worker's push endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lsegpor/Forniture4U-sub000/config"
	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/pubsub"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// TokenValidator checks the OIDC token Google attaches to push requests.
type TokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushHandler records cart events delivered by Pub/Sub push subscriptions.
type PushHandler struct {
	verifyPushAuth bool
	audience       string
	validateToken  TokenValidator
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google push requests are authenticated outside local development
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == config.PubSubProviderGoogle &&
		params.Config.Env.Env != config.EnvDevelop

	var audience string
	if params.Config.Worker != nil {
		audience = params.Config.Worker.PushAudience
	}

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		audience:       audience,
		validateToken:  idtoken.Validate,
		logger:         params.Logger,
		metrics:        params.Metrics,
	}
}

// HandlePush logs and counts one pushed cart event. Malformed messages get 400
// and unauthenticated pushes 401.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := pushMsg.CartEvent()
	if err != nil {
		h.logger.Error("[Worker] Failed to decode cart event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Keep the request id of the cart operation that emitted the event
	requestID := extractRequestID(ctx, &pushMsg, event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	attrs := []slog.Attr{
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.String("event_type", string(event.Type)),
		slog.String("storage_key", event.StorageKey),
		slog.Int("item_count", event.ItemCount),
		slog.Float64("total", event.Total),
	}
	if event.IdentityID != "" {
		attrs = append(attrs, slog.String("user_id", event.IdentityID))
	}
	if event.ProductKey != nil {
		attrs = append(attrs, slog.String("product", event.ProductKey.String()))
	}
	if event.OrderID != "" {
		attrs = append(attrs, slog.String("order_id", event.OrderID))
	}
	reqLogger.LogAttrs(ctx, slog.LevelInfo, "[Worker] Cart event received", attrs...)

	h.metrics.CountCartEvent(string(event.Type), metrics.OutcomeReceived)

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers message attributes, then the event, then the push request.
func extractRequestID(ctx context.Context, pushMsg *pubsub.PushMessage, event *entity.CartEvent) string {
	if requestID, ok := pushMsg.Message.Attributes[pubsub.AttrRequestID]; ok && requestID != "" {
		return requestID
	}
	if event.RequestID != "" {
		return event.RequestID
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken validates the push request's Google-signed ID token.
func (h *PushHandler) verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return errors.New("invalid authorization header format")
	}

	audience := h.audience
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = scheme + "://" + req.Host + req.URL.Path
	}

	payload, err := h.validateToken(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
