package domain

import "context"

// ServicePort is consumed by handlers and the chat module
type ServicePort interface {
	// CheckAndConsume decides whether p may ask a question now and records it if so
	CheckAndConsume(ctx context.Context, p Person) (Decision, error)
	// PeekStatus reports p's quota for today without changing anything
	PeekStatus(ctx context.Context, p Person) (Status, error)
}
