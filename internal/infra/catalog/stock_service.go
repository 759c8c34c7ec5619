// Package catalog queries the product service for furniture bills of materials.
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
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
	peer           = "catalog"
	endpointName   = "bill_of_materials"
	defaultTimeout = 10 * time.Second
)

// Params holds dependencies for the stock service, injected by Fx.
type Params struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// stockService implements the service.StockService interface over HTTP.
type stockService struct {
	cfg        *config.RemoteServiceConfig
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewStockService is the constructor for stockService.
func NewStockService(params Params) service.StockService {
	cfg := params.Config.Catalog
	if cfg == nil {
		cfg = &config.RemoteServiceConfig{}
	}

	return &stockService{
		cfg:        cfg,
		httpClient: remote.NewHTTPClient(cfg.Timeout, defaultTimeout),
		logger:     params.Logger,
		metrics:    params.Metrics,
	}
}

// BillOfMaterials fetches the components of the furniture with their current stock.
func (s *stockService) BillOfMaterials(ctx context.Context, furnitureID string) (*entity.BillOfMaterials, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	if s.cfg.BaseURL == "" {
		return nil, errors.WithStack(domainerrors.ErrFeatureUnavailable.WithDetails("catalog service is not configured"))
	}

	endpoint, err := remote.Endpoint(s.cfg.BaseURL, s.cfg.Path, furnitureID)
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrFeatureUnavailable.WithDetails(err.Error()))
	}

	start := time.Now()
	bom, outcome, err := s.fetch(ctx, endpoint)
	s.metrics.ObserveExternal(peer, endpointName, outcome, time.Since(start))
	if err != nil {
		logger.Warn("Bill of materials lookup failed",
			slog.String("furniture_id", furnitureID),
			slog.Any("error", err),
		)

		return nil, err
	}

	logger.Debug("Bill of materials fetched",
		slog.String("furniture_id", furnitureID),
		slog.Int("components", len(bom.Components)),
	)

	return bom, nil
}

func (s *stockService) fetch(ctx context.Context, endpoint string) (*entity.BillOfMaterials, string, error) {
	req, err := remote.NewJSONRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, metrics.OutcomeError, errors.WithStack(domainerrors.ErrStockCheckFailed.WithDetails(err.Error()))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, metrics.OutcomeError, errors.WithStack(domainerrors.ErrStockCheckFailed.WithDetails("catalog unreachable: " + err.Error()))
	}

	body, err := remote.ReadBody(resp)
	if err != nil {
		return nil, metrics.OutcomeError, errors.WithStack(domainerrors.ErrStockCheckFailed.WithDetails(err.Error()))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotImplemented:
		return nil, metrics.OutcomeRejected, errors.WithStack(domainerrors.ErrFeatureUnavailable.WithDetails(remote.Message(resp.StatusCode, body)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, metrics.OutcomeError, errors.WithStack(domainerrors.ErrStockCheckFailed.WithDetails(remote.Message(resp.StatusCode, body)))
	}

	var bom entity.BillOfMaterials
	if err := json.Unmarshal(body, &bom); err != nil {
		return nil, metrics.OutcomeError, errors.WithStack(domainerrors.ErrStockCheckFailed.WithDetails("unreadable bill of materials"))
	}

	return &bom, metrics.OutcomeSuccess, nil
}
