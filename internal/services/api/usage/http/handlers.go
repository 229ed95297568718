// Package http provides http transport for question analytics
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"astrochat/internal/modkit/httpkit"
	perr "astrochat/internal/platform/errors"
	"astrochat/internal/services/api/usage/domain"
	svc "astrochat/internal/services/api/usage/service"
)

// Register mounts usage endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// outcome counts per UTC day
	httpkit.Get(r, "/daily", h.daily)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /usage/daily Usage usageDaily
// @Summary Question outcomes per day
// @Description Counts allowed, denied and fail open chat requests from ClickHouse
// @Tags Usage
// @Produce json
// @Param days query int false "Days back including today (1-90, default 7)"
// @Success 200 {array} domain.DailyRow "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 503 {object} httpkit.Envelope "analytics disabled"
// @Router /usage/daily [get]
func (h *handlers) daily(r *stdhttp.Request) (any, error) {
	in, err := dailyInput(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Daily(r.Context(), in)
}

func dailyInput(r *stdhttp.Request) (domain.DailyInput, error) {
	var in domain.DailyInput
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, perr.WithField(perr.Validationf("days must be a whole number"), "days")
		}
		in.Days = n
	}
	if err := httpkit.Validate(in); err != nil {
		return in, err
	}
	return in, nil
}
