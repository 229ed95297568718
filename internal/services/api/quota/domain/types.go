// Package domain holds the quota tracker types and DTOs shared by http and service
package domain

import "time"

// DefaultDailyLimit is the per person daily question cap when none is configured
const DefaultDailyLimit = 10

// LimitResetMessage is shown to a person who has used up today's questions
const LimitResetMessage = "Your daily limit of questions has been reached. Your limit will reset tomorrow."

// Person is the birth data a quota is tracked for
// Only FirstName and DateOfBirth take part in the identity key; the rest is
// snapshotted onto the record when it is first created
type Person struct {
	FirstName    string `json:"firstName" validate:"required,max=100" example:"Asha"`
	LastName     string `json:"lastName,omitempty" validate:"omitempty,max=100" example:"Verma"`
	DateOfBirth  string `json:"dateOfBirth" validate:"required,datetime=2006-01-02" example:"1992-03-14"`
	PlaceOfBirth string `json:"placeOfBirth,omitempty" validate:"omitempty,max=200" example:"Jaipur"`
	TimeOfBirth  string `json:"timeOfBirth,omitempty" validate:"omitempty,max=20" example:"04:30"`
}

// Record is the persisted quota row for one identity key
type Record struct {
	IdentityKey   string
	Person        Person
	LifetimeCount int64
	DailyCount    int
	LastDate      time.Time // UTC midnight of the day DailyCount applies to
	DailyLimit    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Decision is the outcome of CheckAndConsume
type Decision struct {
	AllowedThisRequest bool `json:"allowed_this_request" example:"true"`
	QuestionsUsedToday int  `json:"questions_used_today" example:"3"`
	DailyLimit         int  `json:"daily_limit" example:"10"`
	QuestionsRemaining int  `json:"questions_remaining" example:"7"`
	CanAskMore         bool `json:"can_ask_more" example:"true"`
}

// Status is the read only view returned by PeekStatus
type Status struct {
	QuestionsUsed      int  `json:"questions_used" example:"3"`
	DailyLimit         int  `json:"daily_limit" example:"10"`
	QuestionsRemaining int  `json:"questions_remaining" example:"7"`
	CanAsk             bool `json:"can_ask" example:"true"`
}

// StatusInput is the body for the status and consume endpoints
type StatusInput struct {
	UserData Person `json:"userData"`
}
