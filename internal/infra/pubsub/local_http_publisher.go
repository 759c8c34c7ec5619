package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "github.com/lsegpor/Forniture4U-sub000/internal/delivery/context"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/domain/service"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	"github.com/google/uuid"
)

const (
	localSubscription = "projects/local/subscriptions/cart-events-sub"
	localPushTimeout  = 5 * time.Second
)

// localHTTPPublisher imitates a push subscription by posting straight to the worker.
type localHTTPPublisher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.CartEventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: localPushTimeout},
		logger:   logger,
		now:      time.Now,
	}
}

func (p *localHTTPPublisher) PublishCartEvent(ctx context.Context, event *entity.CartEvent) error {
	msg, err := newCartMessage(event)
	if err != nil {
		return err
	}

	envelope := msg.push(localSubscription, uuid.NewString(), p.now())
	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, event.RequestID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "push cart event to %s", p.endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("subscriber returned non-success status: %d", resp.StatusCode)
	}

	p.logger.Debug("Cart event pushed",
		slog.String("event_type", string(event.Type)),
		slog.String("message_id", envelope.Message.MessageID),
	)

	return nil
}

func (p *localHTTPPublisher) Close() error {
	p.client.CloseIdleConnections()

	return nil
}
