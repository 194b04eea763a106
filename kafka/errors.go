package kafka

import (
	"errors"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
)

var connectionPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"network is unreachable",
	"broker not available",
	"leader not available",
	"connection closed",
	"dial tcp",
	"network exception",
}

var retryablePatterns = []string{
	"temporary",
	"request timed out",
	"not enough replicas",
	"offset out of range",
}

var nonRetryablePatterns = []string{
	"message too large",
	"invalid topic",
	"invalid partition",
	"unknown topic",
	"authorization failed",
}

// brokerError extracts the protocol error code from err. Writer batches
// report per-message errors in kafkago.WriteErrors; the first one wins.
func brokerError(err error) (kafkago.Error, bool) {
	var we kafkago.WriteErrors
	if errors.As(err, &we) {
		for _, e := range we {
			if e != nil {
				err = e
				break
			}
		}
	}
	var ke kafkago.Error
	if errors.As(err, &ke) {
		return ke, true
	}
	return 0, false
}

func matchesAny(err error, patterns []string) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsConnectionError reports whether err means the broker could not be reached.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if ke, ok := brokerError(err); ok {
		switch ke {
		case kafkago.BrokerNotAvailable, kafkago.LeaderNotAvailable, kafkago.NotLeaderForPartition, kafkago.NetworkException:
			return true
		}
	}
	return matchesAny(err, connectionPatterns)
}

// IsRetryableError reports whether the client library could succeed on retry.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if IsConnectionError(err) {
		return true
	}
	if ke, ok := brokerError(err); ok && ke.Temporary() {
		return true
	}
	return matchesAny(err, retryablePatterns)
}

// IsNonRetryableError reports whether err is caused by the message or topic
// itself and will fail again unchanged.
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if ke, ok := brokerError(err); ok {
		switch ke {
		case kafkago.MessageSizeTooLarge, kafkago.InvalidTopic, kafkago.UnknownTopicOrPartition,
			kafkago.TopicAuthorizationFailed, kafkago.InvalidMessage:
			return true
		}
	}
	return matchesAny(err, nonRetryablePatterns)
}
