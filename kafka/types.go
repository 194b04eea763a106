package kafka

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/segmentio/kafka-go"
)

// Well-known header keys.
const (
	HeaderContentType = "content-type"
	HeaderMessageID   = "message-id"
)

// Message is a record as the application sees it. Partition and Offset are
// delivery metadata assigned by the broker; they are zero on outbound messages.
type Message struct {
	Key       string            `json:"key"`
	Value     []byte            `json:"value"`
	Topic     string            `json:"topic"`
	Partition int               `json:"partition"`
	Offset    int64             `json:"offset"`
	Timestamp time.Time         `json:"timestamp"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// MessageHandler processes one delivered message.
type MessageHandler func(ctx context.Context, msg Message) error

// Sender publishes a single message and reports whether the broker accepted it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// FromKafkaMessage converts a kafka-go message to a Message.
func FromKafkaMessage(msg kafka.Message) Message {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Key:       string(msg.Key),
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Headers:   headers,
	}
}

// ToKafkaMessage converts the Message to a kafka-go message with headers in
// key order. Partition and Offset are left for the writer's balancer.
func (m Message) ToKafkaMessage() kafka.Message {
	headers := make([]kafka.Header, 0, len(m.Headers))
	for _, k := range slices.Sorted(maps.Keys(m.Headers)) {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(m.Headers[k])})
	}
	var key []byte
	if m.Key != "" {
		key = []byte(m.Key)
	}
	return kafka.Message{
		Key:     key,
		Value:   m.Value,
		Topic:   m.Topic,
		Time:    m.Timestamp,
		Headers: headers,
	}
}

// Header returns the value of a header, or "" if absent.
func (m Message) Header(key string) string {
	return m.Headers[key]
}

// SetHeader sets a header, allocating the map on first use.
func (m *Message) SetHeader(key, value string) {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[key] = value
}

// UnmarshalValueJSON decodes the message value as JSON into v.
func (m Message) UnmarshalValueJSON(v interface{}) error {
	return json.Unmarshal(m.Value, v)
}
