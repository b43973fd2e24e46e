package events

import (
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnknownEventType is returned when a message's routing key does not name
// an event in the schema.
var ErrUnknownEventType = errors.New("unknown event type")

// Envelope is the wire format of every message on the bus:
// {eventType, timestamp, data}. Consumers also accept a bare {data: ...}
// wrapper and, failing that, treat the whole body as the payload.
type Envelope struct {
	EventType string              `json:"eventType"`
	Timestamp int64               `json:"timestamp"`
	Data      jsoniter.RawMessage `json:"data"`
}

// Marshal wraps payload in an Envelope stamped with the current time and
// returns the serialized message body.
func Marshal(payload Payload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", payload.EventType(), err)
	}
	return json.Marshal(Envelope{
		EventType: payload.EventType(),
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	})
}

// Unwrap extracts the payload bytes from a message body. Bodies carrying a
// {data: ...} wrapper (with or without the eventType tag) are unwrapped,
// anything else is returned as-is.
func Unwrap(body []byte) []byte {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return body
}

// Decode validates that routingKey names a schema event and unmarshals the
// payload bytes into the corresponding typed struct. This is the bus-boundary
// gate: handlers only ever see payloads of a declared shape.
func Decode(routingKey string, payload []byte) (Payload, error) {
	var (
		out Payload
		err error
	)
	switch routingKey {
	case TypeOrderCreated:
		var d OrderCreatedData
		err = json.Unmarshal(payload, &d)
		out = d
	case TypeOrderCancelled:
		var d OrderCancelledData
		err = json.Unmarshal(payload, &d)
		out = d
	case TypeOrderPaid:
		var d OrderPaidData
		err = json.Unmarshal(payload, &d)
		out = d
	case TypePaymentFailed:
		var d PaymentFailedData
		err = json.Unmarshal(payload, &d)
		out = d
	case TypeDeliveryShipped:
		var d DeliveryShippedData
		err = json.Unmarshal(payload, &d)
		out = d
	case TypeProductUpdated:
		var d ProductUpdatedData
		err = json.Unmarshal(payload, &d)
		out = d
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, routingKey)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", routingKey, err)
	}
	return out, nil
}
