package domain

import "context"

// LLM turns a prompt into text; one attempt, any error means no answer
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ServicePort is consumed by the chat handler
type ServicePort interface {
	Ask(ctx context.Context, in Request) (Reply, error)
}
