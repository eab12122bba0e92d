// Package dialogue drives a visitor conversation: support answers in one mode,
// validated slot filling in the other, and lead hand-off when the form completes.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/damsole-chat/server/internal/agent/model"
	"github.com/damsole-chat/server/internal/agent/resolver"
	errx "github.com/damsole-chat/server/internal/core/error"
	"github.com/damsole-chat/server/internal/metrics"
	logx "github.com/damsole-chat/server/pkg/logger"
)

const (
	// ResetSentinel re-initializes the conversation without a visible reply.
	ResetSentinel = "__damsole_auto_start__"

	GreetingReply      = "Hello! How can I help you today?"
	CollectionPreamble = "Perfect! I'd be happy to help you with that. Let me collect a few details from you.\n\n"
	RejectionPrefix    = "I'm sorry, but that doesn't seem right. "
	SuccessReply       = "Thank you! I have all the required details. Our Damsole team will contact you shortly."

	defaultHandoffTimeout = 15 * time.Second
)

// DefaultSuggestions are the quick replies offered next to greeting and fallback replies.
var DefaultSuggestions = []string{
	"I want to create website",
	"I want to create logo",
	"I want to create app",
	"I want marketing services",
	"Our services",
}

// Turn outcomes reported to the metrics recorder.
const (
	outcomeReset     = "reset"
	outcomeStarted   = "collection_started"
	outcomeGreeting  = "greeting"
	outcomeResolved  = "resolved"
	outcomeRejected  = "rejected"
	outcomeAccepted  = "accepted"
	outcomeCompleted = "completed"
)

// Resolver answers a support-mode question.
type Resolver interface {
	Resolve(ctx context.Context, text string, history []model.Turn) resolver.Answer
}

// Locker serializes turns for one session id. The default only covers this
// process; replicas sharing a session store need a shared implementation.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Engine is the dialogue state machine. It is safe for concurrent use; turns
// for one session id are serialized and turns for different ids run in parallel.
type Engine struct {
	sessions model.SessionRepository
	resolver Resolver
	leads    model.LeadRepository
	notifier model.Notifier
	recorder metrics.Recorder

	locks          Locker
	now            func() time.Time
	newReference   func() string
	handoffTimeout time.Duration
	suggestions    []string
}

type Option func(*Engine)

func WithLeadRepository(r model.LeadRepository) Option {
	return func(e *Engine) { e.leads = r }
}

func WithNotifier(n model.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHandoffTimeout bounds the combined save and notify call after a completed form.
func WithHandoffTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.handoffTimeout = d
		}
	}
}

// WithLocker replaces the in-process session lock.
func WithLocker(l Locker) Option {
	return func(e *Engine) {
		if l != nil {
			e.locks = l
		}
	}
}

// WithSuggestions replaces the quick replies. An empty list keeps the defaults.
func WithSuggestions(s []string) Option {
	return func(e *Engine) {
		if len(s) > 0 {
			e.suggestions = append([]string(nil), s...)
		}
	}
}

func NewEngine(sessions model.SessionRepository, res Resolver, opts ...Option) *Engine {
	e := &Engine{
		sessions:       sessions,
		resolver:       res,
		recorder:       metrics.Nop{},
		locks:          newKeyedMutex(),
		now:            time.Now,
		newReference:   uuid.NewString,
		handoffTimeout: defaultHandoffTimeout,
		suggestions:    DefaultSuggestions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// pending is work a turn leaves for after the session lock is released.
type pending struct {
	question   string
	history    []model.Turn
	generation uint64
	lead       *model.Lead
}

// Handle processes one inbound message for sessionID and returns the reply.
// An empty message yields errx.ErrEmptyMessage; store failures yield a 500 AppError.
func (e *Engine) Handle(ctx context.Context, sessionID, message string) (model.Reply, error) {
	if sessionID == "" {
		return model.Reply{}, errx.Internal(errors.New("session id is required"))
	}

	text := strings.TrimSpace(message)
	if text == ResetSentinel {
		err := e.locked(ctx, sessionID, func() error {
			s, err := e.sessions.Load(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			s.Reset()
			s.UpdatedAt = e.now()
			return e.sessions.Save(ctx, s)
		})
		if err != nil {
			return model.Reply{}, errx.Internal(fmt.Errorf("reset session: %w", err))
		}
		e.recorder.ObserveTurn(string(model.ModeSupport), outcomeReset)
		return model.Reply{}, nil
	}
	if text == "" {
		return model.Reply{}, errx.ErrEmptyMessage
	}

	var (
		reply model.Reply
		next  pending
	)
	err := e.locked(ctx, sessionID, func() error {
		s, err := e.sessions.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		if s.Mode == model.ModeCollecting {
			reply, next = e.collect(s, text)
		} else {
			reply, next = e.support(s, text)
		}

		s.UpdatedAt = e.now()
		if err := e.sessions.Save(ctx, s); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("dialogue turn failed")
		return model.Reply{}, errx.Internal(err)
	}

	if next.question != "" {
		return e.answer(ctx, sessionID, next)
	}
	if next.lead != nil {
		e.handoff(ctx, next.lead)
	}
	return reply, nil
}

func (e *Engine) locked(ctx context.Context, sessionID string, fn func() error) error {
	unlock, err := e.locks.Lock(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("lock session: %w", err)
	}
	defer unlock()
	return fn()
}

func (e *Engine) support(s *model.Session, text string) (model.Reply, pending) {
	if WantsProject(text) {
		s.BeginCollection()
		first, _ := NextField(s.Fields)
		s.CurrentField = &first
		e.recorder.ObserveTurn(string(model.ModeSupport), outcomeStarted)
		return model.Reply{Text: CollectionPreamble + Question(first)}, pending{}
	}

	if IsGreeting(text) {
		s.AppendTurn(model.RoleUser, text)
		s.AppendTurn(model.RoleAgent, GreetingReply)
		e.recorder.ObserveTurn(string(model.ModeSupport), outcomeGreeting)
		return e.withSuggestions(model.Reply{Text: GreetingReply}), pending{}
	}

	history := append([]model.Turn(nil), s.History...)
	s.AppendTurn(model.RoleUser, text)
	return model.Reply{}, pending{question: text, history: history, generation: s.Generation}
}

// answer runs the resolver without holding the session lock, then records the
// agent turn against the latest stored session. The turn is dropped when the
// session was reset or left support mode meanwhile.
func (e *Engine) answer(ctx context.Context, sessionID string, p pending) (model.Reply, error) {
	ans := e.resolver.Resolve(ctx, p.question, p.history)

	err := e.locked(ctx, sessionID, func() error {
		s, err := e.sessions.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("reload session: %w", err)
		}
		if s.Mode != model.ModeSupport || s.Generation != p.generation {
			return nil
		}
		s.AppendTurn(model.RoleAgent, ans.Text)
		s.UpdatedAt = e.now()
		if err := e.sessions.Save(ctx, s); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("recording answer failed")
		return model.Reply{}, errx.Internal(err)
	}

	e.recorder.ObserveTurn(string(model.ModeSupport), outcomeResolved)
	reply := model.Reply{Text: ans.Text}
	if ans.Source == resolver.SourceFallback {
		reply = e.withSuggestions(reply)
	}
	return reply, nil
}

func (e *Engine) collect(s *model.Session, text string) (model.Reply, pending) {
	var f model.FieldName
	if s.CurrentField != nil && s.CurrentField.Valid() && !s.Fields.Has(*s.CurrentField) {
		f = *s.CurrentField
	} else {
		next, ok := NextField(s.Fields)
		if !ok {
			// Complete form left over from an earlier turn; hand it off without consuming text.
			lead := e.lead(s)
			return e.complete(s), pending{lead: lead}
		}
		f = next
	}

	if ok, msg := Validate(f, text); !ok {
		s.CurrentField = &f
		e.recorder.ObserveTurn(string(model.ModeCollecting), outcomeRejected)
		return model.Reply{Text: RejectionPrefix + msg + "\n\n" + Question(f)}, pending{}
	}

	s.Fields.Set(f, text)
	s.CurrentField = nil

	next, ok := NextField(s.Fields)
	if !ok {
		lead := e.lead(s)
		return e.complete(s), pending{lead: lead}
	}
	s.CurrentField = &next
	e.recorder.ObserveTurn(string(model.ModeCollecting), outcomeAccepted)
	return model.Reply{Text: Question(next)}, pending{}
}

func (e *Engine) lead(s *model.Session) *model.Lead {
	return &model.Lead{
		Reference:   e.newReference(),
		SessionID:   s.ID,
		Record:      s.Fields,
		SubmittedAt: e.now(),
	}
}

func (e *Engine) complete(s *model.Session) model.Reply {
	s.EndCollection()
	e.recorder.ObserveTurn(string(model.ModeCollecting), outcomeCompleted)
	return model.Reply{Text: SuccessReply}
}

// handoff saves and announces a completed lead. Both calls are best-effort:
// failures are logged and counted, never surfaced to the visitor.
func (e *Engine) handoff(ctx context.Context, lead *model.Lead) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.handoffTimeout)
	defer cancel()

	var g errgroup.Group
	if e.leads != nil {
		g.Go(func() error {
			e.report("persistence", lead, e.leads.SaveLead(ctx, lead))
			return nil
		})
	}
	if e.notifier != nil {
		g.Go(func() error {
			e.report("notifier", lead, e.notifier.Notify(ctx, lead))
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) report(collaborator string, lead *model.Lead, err error) {
	e.recorder.ObserveHandoff(collaborator, err == nil)
	if err != nil {
		logx.Error().
			Err(err).
			Str("collaborator", collaborator).
			Str("session_id", lead.SessionID).
			Str("reference", lead.Reference).
			Msg("lead hand-off failed")
		return
	}
	logx.Info().
		Str("collaborator", collaborator).
		Str("session_id", lead.SessionID).
		Str("reference", lead.Reference).
		Msg("lead handed off")
}

func (e *Engine) withSuggestions(r model.Reply) model.Reply {
	r.ShowSuggestions = true
	r.Suggestions = append([]string(nil), e.suggestions...)
	return r
}
