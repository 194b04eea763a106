package binding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/greetings/kafka"
	"github.com/kbukum/greetings/kafka/testutil"
	"github.com/kbukum/greetings/logger"
)

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", buf)
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaultConfig()

	out, err := cfg.Lookup(GreetingsOut)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", GreetingsOut, err)
	}
	if out.Destination != "greetings" || out.ContentType != ContentTypeJSON || out.Group != "" {
		t.Errorf("output binding = %+v", out)
	}

	in, err := cfg.Lookup(GreetingsIn)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", GreetingsIn, err)
	}
	if in.Destination != "greetings" || in.Group != "greetings-group" {
		t.Errorf("input binding = %+v", in)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestApplyDefaults_KeepsConfigured(t *testing.T) {
	cfg := &Config{Bindings: map[string]Binding{
		GreetingsIn: {Destination: "hello", Group: "audit"},
	}}
	cfg.ApplyDefaults()

	in, _ := cfg.Lookup(GreetingsIn)
	if in.Destination != "hello" || in.Group != "audit" {
		t.Errorf("input binding = %+v", in)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		wantErr string
	}{
		{"json with charset", Binding{Destination: "t", ContentType: "application/json; charset=utf-8"}, ""},
		{"vendor json", Binding{Destination: "t", ContentType: "application/vnd.greetings+json"}, ""},
		{"missing destination", Binding{ContentType: ContentTypeJSON}, "destination is required"},
		{"text content type", Binding{Destination: "t", ContentType: "text/plain"}, "not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Bindings: map[string]Binding{"custom": tt.binding}}
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := defaultConfig().Lookup("nope"); err == nil {
		t.Error("expected error for unknown channel")
	}
	if _, err := NewOutputChannel(defaultConfig(), "nope", nil, nil, testLogger(&bytes.Buffer{})); err == nil {
		t.Error("expected error creating channel for unknown binding")
	}
}

type payload struct {
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

func TestOutputChannel_Send(t *testing.T) {
	broker := testutil.NewBroker(1)
	ch, err := NewOutputChannel(defaultConfig(), GreetingsOut, broker.Producer(), nil, testLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewOutputChannel: %v", err)
	}
	if ch.Name() != GreetingsOut || ch.Destination() != "greetings" {
		t.Errorf("channel = %s -> %s", ch.Name(), ch.Destination())
	}

	if !ch.Send(context.Background(), payload{Timestamp: 42, Message: "hello"}) {
		t.Fatal("Send() = false, want true")
	}

	msgs := broker.Messages("greetings")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	msg := msgs[0]
	if got := msg.Header(kafka.HeaderContentType); got != ContentTypeJSON {
		t.Errorf("content-type = %q, want %q", got, ContentTypeJSON)
	}
	if msg.Header(kafka.HeaderMessageID) == "" {
		t.Error("expected message-id header")
	}

	var got payload
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.Message != "hello" || got.Timestamp != 42 {
		t.Errorf("payload = %+v", got)
	}
}

func TestOutputChannel_SendFailure(t *testing.T) {
	broker := testutil.NewBroker(1)
	producer := broker.Producer()
	producer.FailWith(kafkago.LeaderNotAvailable)

	var buf bytes.Buffer
	ch, _ := NewOutputChannel(defaultConfig(), GreetingsOut, producer, nil, testLogger(&buf))
	if ch.Send(context.Background(), payload{Message: "hello"}) {
		t.Fatal("Send() = true, want false")
	}
	if n := len(broker.Messages("greetings")); n != 0 {
		t.Errorf("got %d messages on failure, want 0", n)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["code"] != "SERVICE_UNAVAILABLE" || entry["retryable"] != true {
		t.Errorf("log entry = %v", entry)
	}
	if entry["channel"] != GreetingsOut {
		t.Errorf("channel = %v, want %s", entry["channel"], GreetingsOut)
	}
	if entry["error"] != kafkago.LeaderNotAvailable.Error() || entry["topic"] != "greetings" {
		t.Errorf("error fields = %v, %v", entry["error"], entry["topic"])
	}
}

func TestOutputChannel_EncodeFailure(t *testing.T) {
	broker := testutil.NewBroker(1)
	ch, _ := NewOutputChannel(defaultConfig(), GreetingsOut, broker.Producer(), nil, testLogger(&bytes.Buffer{}))
	if ch.Send(context.Background(), make(chan int)) {
		t.Error("Send() = true for unencodable payload")
	}
}

type erroringSender struct{ err error }

func (s erroringSender) Send(context.Context, kafka.Message) error { return s.err }

func TestOutputChannel_UnclassifiedError(t *testing.T) {
	var buf bytes.Buffer
	ch, _ := NewOutputChannel(defaultConfig(), GreetingsOut, erroringSender{errors.New("boom")}, nil, testLogger(&buf))
	if ch.Send(context.Background(), payload{}) {
		t.Fatal("Send() = true, want false")
	}
	if !strings.Contains(buf.String(), "INTERNAL_ERROR") {
		t.Errorf("expected INTERNAL_ERROR in log, got %s", buf.String())
	}
}
