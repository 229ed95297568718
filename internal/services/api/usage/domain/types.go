// Package domain holds question analytics types shared by the usage module and its callers
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is what the quota decided for one chat request
type Outcome string

// Outcomes recorded per chat request
const (
	OutcomeAllowed  Outcome = "allowed"
	OutcomeDenied   Outcome = "denied"
	OutcomeFailOpen Outcome = "fail_open" // tracker unavailable, request let through
)

// Event is one chat request as seen by analytics
type Event struct {
	ID            uuid.UUID
	At            time.Time
	Identity      string // shortened identity key, never a name
	Outcome       Outcome
	Fallback      bool // reply came from the canned list instead of the model
	Model         string
	Latency       time.Duration
	QuestionsUsed int
}

// DailyRow is one UTC day of question outcomes
type DailyRow struct {
	Day        string `json:"day" example:"2024-01-01"`
	Allowed    uint64 `json:"allowed" example:"120"`
	Denied     uint64 `json:"denied" example:"4"`
	FailOpen   uint64 `json:"fail_open" example:"0"`
	Fallbacks  uint64 `json:"fallbacks" example:"2"`
	Identities uint64 `json:"identities" example:"37"`
}

// DailyInput is the query for per day counts
type DailyInput struct {
	Days int `json:"days" validate:"omitempty,min=1,max=90" example:"7"`
}
