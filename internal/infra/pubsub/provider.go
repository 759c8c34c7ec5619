// Package pubsub delivers cart events to subscribers.
package pubsub

import (
	"context"
	"log/slog"

	"github.com/lsegpor/Forniture4U-sub000/config"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
	"github.com/lsegpor/Forniture4U-sub000/internal/infra/metrics"

	"go.uber.org/fx"
)

type PublisherParams struct {
	fx.In

	Lc      fx.Lifecycle
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// NewCartEventPublisher opens the publisher selected by pubsub.provider and
// counts every publish attempt. Without a provider events are dropped.
func NewCartEventPublisher(params PublisherParams) (service.CartEventPublisher, error) {
	logger := params.Logger.With(slog.String("component", "pubsub"))

	publisher, err := openPublisher(context.Background(), params.Config.PubSub, logger)
	if err != nil {
		return nil, err
	}
	params.Lc.Append(fx.StopHook(publisher.Close))

	return &instrumentedPublisher{CartEventPublisher: publisher, metrics: params.Metrics}, nil
}

func openPublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.CartEventPublisher, error) {
	if cfg == nil || cfg.Provider == "" {
		logger.Info("Event bus not configured, cart events are dropped")

		return noopPublisher{logger: logger}, nil
	}

	switch cfg.Provider {
	case config.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Pushing cart events over HTTP", slog.String("endpoint", cfg.LocalEndpoint))

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil

	case config.PubSubProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, errors.New("project ID and topic ID are required for google provider")
		}
		logger.Info("Publishing cart events to Google Pub/Sub",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		return NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
}

type noopPublisher struct {
	logger *slog.Logger
}

func (p noopPublisher) PublishCartEvent(_ context.Context, event *entity.CartEvent) error {
	p.logger.Debug("Cart event dropped", slog.String("event_type", string(event.Type)))

	return nil
}

func (noopPublisher) Close() error { return nil }

// instrumentedPublisher counts publish outcomes per event type.
type instrumentedPublisher struct {
	service.CartEventPublisher
	metrics *metrics.Metrics
}

func (p *instrumentedPublisher) PublishCartEvent(ctx context.Context, event *entity.CartEvent) error {
	err := p.CartEventPublisher.PublishCartEvent(ctx, event)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	p.metrics.CountCartEvent(string(event.Type), outcome)

	return err
}

var Module = fx.Module("pubsub",
	fx.Provide(NewCartEventPublisher),
)
