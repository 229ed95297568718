// Package domain holds the chat request and reply shapes
package domain

import (
	"time"

	perr "astrochat/internal/platform/errors"
	qdomain "astrochat/internal/services/api/quota/domain"

	"github.com/google/uuid"
)

// DefaultMaxMessage is the longest question accepted, in characters
const DefaultMaxMessage = 1000

// Messages shown for rejected chat requests
const (
	MsgInvalidMessage = "Please provide a valid message"
	MsgBirthDetails   = "Complete birth details are required for accurate Vedic astrology reading."
	MsgDateOfBirth    = "dateOfBirth must be a date in YYYY-MM-DD format"
)

// BirthDetails is the chart data sent with every question
// Presence is checked after cleaning and the date as sent, so tags only bound length
type BirthDetails struct {
	FirstName    string `json:"firstName" validate:"max=100" example:"Asha"`
	LastName     string `json:"lastName,omitempty" validate:"max=100" example:"Verma"`
	DateOfBirth  string `json:"dateOfBirth" validate:"max=40" example:"1992-03-14"`
	PlaceOfBirth string `json:"placeOfBirth" validate:"max=200" example:"Jaipur"`
	TimeOfBirth  string `json:"timeOfBirth" validate:"max=20" example:"04:30"`
}

// Person converts to the quota tracker's view
func (b BirthDetails) Person() qdomain.Person {
	return qdomain.Person{
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		DateOfBirth:  b.DateOfBirth,
		PlaceOfBirth: b.PlaceOfBirth,
		TimeOfBirth:  b.TimeOfBirth,
	}
}

// Request is the POST /chat body
type Request struct {
	Message  string       `json:"message" validate:"max=8000" example:"Meri shaadi kab hogi?"`
	UserData BirthDetails `json:"userData"`
}

// Reply is a successful chat answer
type Reply struct {
	Response      string            `json:"response"`
	Timestamp     time.Time         `json:"timestamp"`
	Fallback      bool              `json:"fallback,omitempty"`
	ReplyID       uuid.UUID         `json:"reply_id"`
	UserLimitInfo *qdomain.Decision `json:"user_limit_info,omitempty"`
}

// LimitDetails rides along with a 429 so the client can show the quota state
type LimitDetails struct {
	LimitExceeded bool      `json:"limit_exceeded" example:"true"`
	DailyLimit    int       `json:"daily_limit" example:"10"`
	QuestionsUsed int       `json:"questions_used" example:"10"`
	ResetMessage  string    `json:"reset_message"`
	Timestamp     time.Time `json:"timestamp"`
}

// LimitError is returned when today's quota is used up
// It unwraps to a TooManyRequests perr so status mapping needs no special case
type LimitError struct {
	Details LimitDetails
	err     error
}

// NewLimitError builds the denial for d at now
func NewLimitError(d qdomain.Decision, now time.Time) *LimitError {
	return &LimitError{
		Details: LimitDetails{
			LimitExceeded: true,
			DailyLimit:    d.DailyLimit,
			QuestionsUsed: d.QuestionsUsedToday,
			ResetMessage:  qdomain.LimitResetMessage,
			Timestamp:     now,
		},
		err: perr.TooManyRequestsf("%s", qdomain.LimitResetMessage),
	}
}

func (e *LimitError) Error() string { return e.err.Error() }

// Unwrap exposes the coded error
func (e *LimitError) Unwrap() error { return e.err }
