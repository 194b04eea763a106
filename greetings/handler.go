package greetings

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/greetings/errors"
	"github.com/kbukum/greetings/server"
	"github.com/kbukum/greetings/validation"
)

// greetingsQuery leaves Message nil when the parameter is absent; an empty
// value is still a message.
type greetingsQuery struct {
	Message *string `form:"message" validate:"required"`
}

// Handler serves GET /greetings.
type Handler struct {
	svc *Service
}

// NewHandler returns the HTTP handler for svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the handler's routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/greetings", h.Greet)
}

// Greet publishes the message query parameter and answers 202 with the record,
// whatever the send result.
func (h *Handler) Greet(c *gin.Context) {
	var q greetingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		server.RespondWithError(c, errors.Validation(err.Error()).WithCause(err))
		return
	}
	if err := validation.Validate(q); err != nil {
		server.RespondWithError(c, err)
		return
	}

	g, _ := h.svc.Send(c.Request.Context(), *q.Message)
	server.RespondAccepted(c, g)
}
