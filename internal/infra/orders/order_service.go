// Package orders submits checkouts to the order service.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lsegpor/Forniture4U-sub000/config"
	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	domainerrors "github.com/lsegpor/Forniture4U-sub000/internal/domain/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/remote"

	"go.uber.org/fx"
)

const (
	peer           = "orders"
	endpointName   = "submit"
	defaultTimeout = 10 * time.Second
)

// Params holds dependencies for the order service, injected by Fx.
type Params struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// orderService implements the service.OrderService interface over HTTP.
type orderService struct {
	cfg        *config.RemoteServiceConfig
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params Params) service.OrderService {
	cfg := params.Config.Orders
	if cfg == nil {
		cfg = &config.RemoteServiceConfig{}
	}

	return &orderService{
		cfg:        cfg,
		httpClient: remote.NewHTTPClient(cfg.Timeout, defaultTimeout),
		logger:     params.Logger,
		metrics:    params.Metrics,
	}
}

// SubmitOrder posts the order with the bearer credential.
func (s *orderService) SubmitOrder(ctx context.Context, credential string, order *entity.OrderRequest) (*entity.OrderConfirmation, error) {
	if s.cfg.BaseURL == "" {
		return nil, errors.WithStack(domainerrors.ErrFeatureUnavailable.WithDetails("order service is not configured"))
	}

	endpoint, err := remote.Endpoint(s.cfg.BaseURL, s.cfg.Path, "")
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrFeatureUnavailable.WithDetails(err.Error()))
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode order")
	}

	start := time.Now()
	confirmation, outcome, err := s.post(ctx, endpoint, credential, payload)
	s.metrics.ObserveExternal(peer, endpointName, outcome, time.Since(start))
	if err != nil {
		return nil, err
	}

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Info("Order accepted",
		slog.String("order_id", confirmation.OrderID),
		slog.String("user_id", order.IdentityID),
	)

	return confirmation, nil
}

func (s *orderService) post(ctx context.Context, endpoint, credential string, payload []byte) (*entity.OrderConfirmation, string, error) {
	req, err := remote.NewJSONRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, metrics.OutcomeError, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, metrics.OutcomeError, errors.WithStack(domainerrors.ErrOrderRejected.WithDetails("order service unreachable: " + err.Error()))
	}

	body, err := remote.ReadBody(resp)
	if err != nil {
		return nil, metrics.OutcomeError, errors.WithStack(domainerrors.ErrOrderRejected.WithDetails(err.Error()))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, metrics.OutcomeRejected, errors.WithStack(domainerrors.ErrSessionExpired.WithDetails(remote.Message(resp.StatusCode, body)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, metrics.OutcomeRejected, errors.WithStack(domainerrors.ErrOrderRejected.WithDetails(remote.Message(resp.StatusCode, body)))
	}

	return parseConfirmation(body), metrics.OutcomeSuccess, nil
}

// parseConfirmation reads what it can from the answer; order services differ in
// how they name the id.
func parseConfirmation(body []byte) *entity.OrderConfirmation {
	confirmation := &entity.OrderConfirmation{}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return confirmation
	}
	confirmation.Raw = raw

	source := raw
	if nested, ok := raw["pedido"].(map[string]any); ok {
		source = nested
	}
	for _, key := range []string{"orderId", "id", "_id"} {
		if id := stringify(source[key]); id != "" {
			confirmation.OrderID = id

			break
		}
	}
	if message, ok := raw["message"].(string); ok {
		confirmation.Message = message
	}
	if total, ok := source["total"].(float64); ok {
		confirmation.Total = total
	}
	if created, ok := source["createdAt"].(string); ok {
		if at, err := time.Parse(time.RFC3339, created); err == nil {
			confirmation.CreatedAt = at
		}
	}

	return confirmation
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
