package kafka

import (
	"net/http"

	apperrors "github.com/kbukum/greetings/errors"
)

// FromKafka converts a client error to an AppError tagged with the topic.
func FromKafka(err error, topic string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	switch {
	case IsConnectionError(err):
		appErr = apperrors.ServiceUnavailable("message broker")
	case IsNonRetryableError(err):
		appErr = apperrors.InvalidInput("", "message was rejected by the broker")
	case IsRetryableError(err):
		appErr = apperrors.New(apperrors.ErrCodeExternalService,
			"Temporary broker error", http.StatusServiceUnavailable)
	default:
		appErr = apperrors.Internal(err)
	}
	return appErr.WithCause(err).WithDetail("topic", topic)
}
