// Package service answers chat questions: clean input, count the question,
// ask the model, fall back to a canned reply when it fails
package service

import (
	"context"
	"time"
	"unicode/utf8"

	"astrochat/internal/core/identity"
	"astrochat/internal/core/normalize"
	"astrochat/internal/core/prompt"
	perr "astrochat/internal/platform/errors"
	"astrochat/internal/platform/logger"
	ptime "astrochat/internal/platform/time"
	"astrochat/internal/services/api/chat/domain"
	qdomain "astrochat/internal/services/api/quota/domain"
	udomain "astrochat/internal/services/api/usage/domain"

	"github.com/google/uuid"
)

// Service defines the chat service contract
type Service interface {
	domain.ServicePort
}

// Options tune the chat path
type Options struct {
	// QuotaFailOpen lets a question through when the tracker is unreachable
	QuotaFailOpen bool
	// MaxMessage caps the cleaned question length in characters (default 1000)
	MaxMessage int
	// Model is recorded on usage events
	Model string
	// Pick chooses the fallback reply; nil is uniform random
	Pick prompt.Picker
}

// Svc implements the chat service
type Svc struct {
	quota qdomain.ServicePort
	llm   domain.LLM
	usage udomain.RecorderPort
	clock ptime.Clock
	opts  Options
}

// New constructs the chat service; llm and usage may be nil
// Without an llm every answer is a fallback
func New(quota qdomain.ServicePort, llm domain.LLM, usage udomain.RecorderPort, clock ptime.Clock, opts Options) *Svc {
	if quota == nil {
		panic("chat.Service requires a quota port")
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if opts.MaxMessage <= 0 {
		opts.MaxMessage = domain.DefaultMaxMessage
	}
	return &Svc{quota: quota, llm: llm, usage: usage, clock: clock, opts: opts}
}

// Ask answers one question for the person in in.UserData
// A used up quota returns *domain.LimitError and the model is not called
func (s *Svc) Ask(ctx context.Context, in domain.Request) (domain.Reply, error) {
	msg, birth, err := s.clean(in)
	if err != nil {
		return domain.Reply{}, err
	}
	// the tracker keys on the name as sent so /quota/status resolves the same record
	person := birth.Person()
	person.FirstName = in.UserData.FirstName
	person.DateOfBirth = in.UserData.DateOfBirth
	key := identity.Key(person.FirstName, person.DateOfBirth)
	log := logger.C(ctx).With().Str("identity", identity.Short(key)).Logger()
	start := s.clock.Now()

	ev := udomain.Event{Identity: identity.Short(key), Model: s.opts.Model}
	var info *qdomain.Decision

	d, err := s.quota.CheckAndConsume(ctx, person)
	switch {
	case err != nil:
		if !s.opts.QuotaFailOpen {
			return domain.Reply{}, err
		}
		log.Warn().Err(err).Msg("quota tracking failed, answering without a count")
		ev.Outcome = udomain.OutcomeFailOpen
	case !d.AllowedThisRequest:
		ev.Outcome = udomain.OutcomeDenied
		ev.QuestionsUsed = d.QuestionsUsedToday
		s.record(ev)
		log.Info().Int("used", d.QuestionsUsedToday).Int("limit", d.DailyLimit).Msg("daily question limit reached")
		return domain.Reply{}, domain.NewLimitError(d, s.clock.Now())
	default:
		ev.Outcome = udomain.OutcomeAllowed
		ev.QuestionsUsed = d.QuestionsUsedToday
		info = &d
	}

	text, fallback := s.answer(ctx, birth, msg, log)
	now := s.clock.Now()
	ev.Fallback = fallback
	ev.Latency = now.Sub(start)
	s.record(ev)

	return domain.Reply{
		Response:      text,
		Timestamp:     now,
		Fallback:      fallback,
		ReplyID:       uuid.New(),
		UserLimitInfo: info,
	}, nil
}

// answer asks the model and swaps in a canned reply on any failure
func (s *Svc) answer(ctx context.Context, b domain.BirthDetails, msg string, log logger.Logger) (string, bool) {
	if s.llm == nil {
		return prompt.Fallback(s.opts.Pick), true
	}
	p, err := prompt.Build(prompt.Birth{
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		DateOfBirth:  b.DateOfBirth,
		TimeOfBirth:  b.TimeOfBirth,
		PlaceOfBirth: b.PlaceOfBirth,
	}, msg)
	if err != nil {
		log.Error().Err(err).Msg("prompt build failed")
		return prompt.Fallback(s.opts.Pick), true
	}
	text, err := s.llm.Generate(ctx, p)
	if err != nil {
		log.Error().Err(err).Msg("model call failed, serving fallback")
		return prompt.Fallback(s.opts.Pick), true
	}
	return text, false
}

func (s *Svc) record(ev udomain.Event) {
	if s.usage == nil {
		return
	}
	ev.At = s.clock.Now()
	s.usage.Record(ev)
}

// clean normalizes the question and birth fields, then checks what binding could not
func (s *Svc) clean(in domain.Request) (string, domain.BirthDetails, error) {
	msg := normalize.Message(in.Message)
	if msg == "" {
		return "", domain.BirthDetails{}, perr.WithField(perr.Validationf(domain.MsgInvalidMessage), "message")
	}
	if utf8.RuneCountInString(msg) > s.opts.MaxMessage {
		return "", domain.BirthDetails{}, perr.WithField(
			perr.Validationf("Message too long. Please keep it under %d characters.", s.opts.MaxMessage), "message")
	}

	b := domain.BirthDetails{
		FirstName:    normalize.Field(in.UserData.FirstName),
		LastName:     normalize.Field(in.UserData.LastName),
		DateOfBirth:  normalize.Field(in.UserData.DateOfBirth),
		PlaceOfBirth: normalize.Field(in.UserData.PlaceOfBirth),
		TimeOfBirth:  normalize.Field(in.UserData.TimeOfBirth),
	}
	if b.FirstName == "" || b.DateOfBirth == "" || b.PlaceOfBirth == "" || b.TimeOfBirth == "" {
		return "", domain.BirthDetails{}, perr.WithField(perr.Validationf(domain.MsgBirthDetails), "userData")
	}
	if _, err := time.Parse(time.DateOnly, in.UserData.DateOfBirth); err != nil {
		return "", domain.BirthDetails{}, perr.WithField(perr.Validationf(domain.MsgDateOfBirth), "dateOfBirth")
	}
	return msg, b, nil
}
