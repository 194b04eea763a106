package greetings

import (
	"fmt"
	"time"
)

// Greetings is the record exchanged over the stream.
type Greetings struct {
	Timestamp int64  `json:"timestamp"` // ms since epoch
	Message   string `json:"message"`
}

// New builds a record for message stamped at t.
func New(message string, t time.Time) Greetings {
	return Greetings{Timestamp: t.UnixMilli(), Message: message}
}

// String renders the record for log messages.
func (g Greetings) String() string {
	return fmt.Sprintf("Greetings(timestamp=%d, message=%s)", g.Timestamp, g.Message)
}

// Received is a record as delivered to the listener. Partition and Offset
// come from delivery metadata, never from the payload.
type Received struct {
	Greetings
	Partition int   `json:"partition"`
	Offset    int64 `json:"offset"`
}
