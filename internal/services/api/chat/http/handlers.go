// Package http provides http transport for chat
package http

import (
	"errors"
	stdhttp "net/http"

	"astrochat/internal/modkit/httpkit"
	"astrochat/internal/services/api/chat/domain"
	svc "astrochat/internal/services/api/chat/service"
)

// Register mounts the chat endpoint on the given router
// mw wraps the chat route, eg a per ip rate limit
func Register(r httpkit.Router, s svc.Service, mw ...func(stdhttp.Handler) stdhttp.Handler) {
	h := &handlers{svc: s}

	r.Group(func(g httpkit.Router) {
		if len(mw) > 0 {
			g.Use(mw...)
		}
		httpkit.PostJSON[domain.Request](g, "/", h.ask)
	})
}

type handlers struct{ svc svc.Service }

// swagger:route POST /chat Chat chatAsk
// @Summary Ask a question about a birth chart
// @Description Counts the question against the daily quota, then asks the model. A failed model call returns a canned reply with fallback=true
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body domain.Request true "Question and birth details"
// @Success 200 {object} domain.Reply "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 429 {object} httpkit.Envelope{data=domain.LimitDetails} "daily limit reached"
// @Failure 503 {object} httpkit.Envelope "question tracking unavailable"
// @Router /chat [post]
func (h *handlers) ask(r *stdhttp.Request, in domain.Request) (any, error) {
	reply, err := h.svc.Ask(r.Context(), in)
	var le *domain.LimitError
	if errors.As(err, &le) {
		return httpkit.Reject(le, le.Details), nil
	}
	if err != nil {
		return nil, err
	}
	return reply, nil
}
