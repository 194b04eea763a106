package greetings

import (
	"context"
	"time"

	"github.com/kbukum/greetings/logger"
)

// Channel accepts payloads for publishing and reports whether the send
// succeeded. *binding.OutputChannel implements it.
type Channel interface {
	Send(ctx context.Context, payload any) bool
}

// Service hands greetings to the outbound channel.
type Service struct {
	out Channel
	log *logger.Logger
	now func() time.Time
}

// NewService returns a Service publishing on out.
func NewService(out Channel, log *logger.Logger) *Service {
	return &Service{out: out, log: log.WithComponent("greetings-service"), now: time.Now}
}

// SendGreeting publishes g and returns the channel's result.
func (s *Service) SendGreeting(ctx context.Context, g Greetings) bool {
	log := s.log.WithContext(ctx)
	log.Info("Sending greetings", logger.Fields("greetings", g.String()))

	sent := s.out.Send(ctx, g)

	log.Info("Sent greetings", logger.Fields("sent", sent, "greetings", g.String()))
	return sent
}

// Send builds a record for message stamped now and publishes it.
func (s *Service) Send(ctx context.Context, message string) (Greetings, bool) {
	g := New(message, s.now())
	return g, s.SendGreeting(ctx, g)
}
