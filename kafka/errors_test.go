package kafka

import (
	"errors"
	"fmt"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated", errors.New("something else"), false},
		{"refused", errors.New("dial tcp 127.0.0.1:9092: connect: connection refused"), true},
		{"reset mixed case", errors.New("Connection Reset by peer"), true},
		{"io timeout", errors.New("read: i/o timeout"), true},
		{"broker code", kafkago.BrokerNotAvailable, true},
		{"leader code wrapped", fmt.Errorf("write: %w", kafkago.LeaderNotAvailable), true},
		{"write errors", kafkago.WriteErrors{kafkago.NotLeaderForPartition}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unknown", errors.New("unknown error"), false},
		{"connection", errors.New("connection refused"), true},
		{"request timed out", errors.New("request timed out"), true},
		{"not enough replicas", errors.New("not enough replicas"), true},
		{"temporary code", kafkago.RequestTimedOut, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsNonRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"random", errors.New("random error"), false},
		{"too large text", errors.New("message too large"), true},
		{"unknown topic text", errors.New("unknown topic or partition"), true},
		{"too large code", kafkago.MessageSizeTooLarge, true},
		{"invalid topic in batch", kafkago.WriteErrors{nil, kafkago.InvalidTopic}, true},
		{"auth code", kafkago.TopicAuthorizationFailed, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNonRetryableError(tt.err); got != tt.want {
				t.Errorf("IsNonRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
