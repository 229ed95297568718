package module

import (
	"context"

	"astrochat/internal/services/api/quota/domain"
	qsvc "astrochat/internal/services/api/quota/service"
)

// Ports returns a domain.ServicePort over the tracker
func (m *Module) Ports() any { return adaptQuotaPort{svc: m.svc} }

type adaptQuotaPort struct{ svc qsvc.Service }

// CheckAndConsume counts one question for p when the day allows it
func (a adaptQuotaPort) CheckAndConsume(ctx context.Context, p domain.Person) (domain.Decision, error) {
	return a.svc.CheckAndConsume(ctx, p)
}

// PeekStatus reports p's quota for today
func (a adaptQuotaPort) PeekStatus(ctx context.Context, p domain.Person) (domain.Status, error) {
	return a.svc.PeekStatus(ctx, p)
}

var _ domain.ServicePort = adaptQuotaPort{}
