package domain

import "context"

// RecorderPort accepts events without blocking the request path
type RecorderPort interface {
	Record(ev Event)
}

// ReaderPort serves aggregated counts
type ReaderPort interface {
	Daily(ctx context.Context, in DailyInput) ([]DailyRow, error)
}
