package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/entity"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"
)

// Attribute names set on every cart event message.
const (
	AttrEventType  = "event_type"
	AttrStorageKey = "storage_key"
	AttrIdentityID = "identity_id"
	AttrOrderID    = "order_id"
	AttrRequestID  = "request_id"
)

// cartMessage is a cart event ready for either transport. Events of one
// cart share an ordering key so subscribers see them in mutation order.
type cartMessage struct {
	data        []byte
	attributes  map[string]string
	orderingKey string
}

func newCartMessage(event *entity.CartEvent) (*cartMessage, error) {
	if event == nil || event.Type == "" {
		return nil, errors.New("cart event has no type")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "encode cart event")
	}

	attributes := map[string]string{
		AttrEventType:  string(event.Type),
		AttrStorageKey: event.StorageKey,
	}
	for name, value := range map[string]string{
		AttrIdentityID: event.IdentityID,
		AttrOrderID:    event.OrderID,
		AttrRequestID:  event.RequestID,
	} {
		if value != "" {
			attributes[name] = value
		}
	}

	return &cartMessage{
		data:        data,
		attributes:  attributes,
		orderingKey: event.StorageKey,
	}, nil
}

// PushMessage is the body Pub/Sub posts to push endpoints.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
		OrderingKey string            `json:"orderingKey,omitempty"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

func (m *cartMessage) push(subscription, messageID string, publishedAt time.Time) *PushMessage {
	msg := &PushMessage{Subscription: subscription}
	msg.Message.Data = base64.StdEncoding.EncodeToString(m.data)
	msg.Message.Attributes = m.attributes
	msg.Message.MessageID = messageID
	msg.Message.PublishTime = publishedAt.UTC().Format(time.RFC3339Nano)
	msg.Message.OrderingKey = m.orderingKey

	return msg
}

// CartEvent decodes the pushed payload. Events without a type are rejected.
func (p *PushMessage) CartEvent() (*entity.CartEvent, error) {
	raw, err := base64.StdEncoding.DecodeString(p.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decode push data")
	}

	var event entity.CartEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, errors.Wrap(err, "decode cart event")
	}
	if event.Type == "" {
		return nil, errors.New("cart event has no type")
	}

	return &event, nil
}
