package module

import (
	"context"

	"astrochat/internal/services/api/usage/domain"
	usvc "astrochat/internal/services/api/usage/service"
)

// Port is what other modules get from Ports
type Port interface {
	domain.RecorderPort
	domain.ReaderPort
}

// Ports returns a Port over the sink
func (m *Module) Ports() any { return adaptUsagePort{svc: m.svc} }

type adaptUsagePort struct{ svc usvc.Service }

// Record queues one question event
func (a adaptUsagePort) Record(ev domain.Event) { a.svc.Record(ev) }

// Daily returns per day outcome counts
func (a adaptUsagePort) Daily(ctx context.Context, in domain.DailyInput) ([]domain.DailyRow, error) {
	return a.svc.Daily(ctx, in)
}

var _ Port = adaptUsagePort{}
