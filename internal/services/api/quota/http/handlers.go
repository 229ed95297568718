// Package http provides http transport for the quota tracker
package http

import (
	stdhttp "net/http"

	"astrochat/internal/modkit/httpkit"
	"astrochat/internal/services/api/quota/domain"
	svc "astrochat/internal/services/api/quota/service"
)

// Register mounts quota endpoints on the given router
// statusMw wraps only the status route, eg a rate limit
func Register(r httpkit.Router, s svc.Service, statusMw ...func(stdhttp.Handler) stdhttp.Handler) {
	h := &handlers{svc: s}

	// read only view of today's count
	r.Group(func(g httpkit.Router) {
		if len(statusMw) > 0 {
			g.Use(statusMw...)
		}
		httpkit.PostJSON[domain.StatusInput](g, "/status", h.status)
	})

	// direct tracker access, counts a question
	httpkit.PostJSON[domain.StatusInput](r, "/consume", h.consume)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /quota/status Quota quotaStatus
// @Summary Question quota for today
// @Description Never creates or changes a quota record
// @Tags Quota
// @Accept json
// @Produce json
// @Param payload body domain.StatusInput true "Person"
// @Success 200 {object} domain.Status "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 503 {object} httpkit.Envelope "status unavailable"
// @Router /quota/status [post]
func (h *handlers) status(r *stdhttp.Request, in domain.StatusInput) (any, error) {
	return h.svc.PeekStatus(r.Context(), in.UserData)
}

// swagger:route POST /quota/consume Quota quotaConsume
// @Summary Count one question against today's quota
// @Tags Quota
// @Accept json
// @Produce json
// @Param payload body domain.StatusInput true "Person"
// @Success 200 {object} domain.Decision "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 503 {object} httpkit.Envelope "tracking unavailable"
// @Router /quota/consume [post]
func (h *handlers) consume(r *stdhttp.Request, in domain.StatusInput) (any, error) {
	return h.svc.CheckAndConsume(r.Context(), in.UserData)
}
