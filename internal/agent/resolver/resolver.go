// Package resolver answers support-mode questions through an ordered chain of
// strategies: knowledge base, generative completion, web search, canned fallback.
package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/damsole-chat/server/internal/agent/model"
	"github.com/damsole-chat/server/internal/metrics"
	logx "github.com/damsole-chat/server/pkg/logger"
)

// FallbackReply is returned when no strategy produced an answer.
const FallbackReply = "I'd be happy to help! You can ask me about:\n\n" +
	"• Our services (web development, design, marketing, etc.)\n" +
	"• Pricing information\n" +
	"• Project timelines\n" +
	"• How to get started with your project\n\n" +
	"Or just tell me what you'd like to build, and I'll collect your details!"

// Source names the strategy that produced an answer.
type Source string

const (
	SourceKnowledge  Source = "knowledge"
	SourceCompletion Source = "completion"
	SourceSearch     Source = "search"
	SourceFallback   Source = "fallback"
)

// Outcome is the result kind of one strategy attempt.
type Outcome int

const (
	// NoAnswer means the strategy had nothing to say or failed for a non-transient reason.
	NoAnswer Outcome = iota
	// Answered means Text holds the reply.
	Answered
	// TransientFailure means the collaborator is throttled (quota / rate limit).
	TransientFailure
)

func (o Outcome) String() string {
	switch o {
	case Answered:
		return "answered"
	case TransientFailure:
		return "transient_failure"
	default:
		return "no_answer"
	}
}

// Result is what a strategy returns.
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Query is one support question plus the prior conversation.
type Query struct {
	Text    string
	History []model.Turn
}

// Strategy is one named step of the chain.
type Strategy struct {
	Source Source
	// Timeout bounds Answer; zero means no extra bound.
	Timeout time.Duration
	// RunIf gates the strategy on the previous result; nil always runs.
	RunIf func(prev Result) bool
	// Answer performs the attempt.
	Answer func(ctx context.Context, q Query) Result
}

// Answer is the resolved reply and who produced it.
type Answer struct {
	Text   string
	Source Source
}

// Resolver evaluates strategies in order until one answers.
type Resolver struct {
	strategies []Strategy
	fallback   string
	recorder   metrics.Recorder
}

type Option func(*Resolver)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(res *Resolver) {
		if r != nil {
			res.recorder = r
		}
	}
}

// WithFallback overrides the canned fallback reply.
func WithFallback(text string) Option {
	return func(res *Resolver) {
		if strings.TrimSpace(text) != "" {
			res.fallback = text
		}
	}
}

func New(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategies: strategies,
		fallback:   FallbackReply,
		recorder:   metrics.Nop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: collaborator errors degrade to the next strategy and
// finally to the canned fallback.
func (r *Resolver) Resolve(ctx context.Context, text string, history []model.Turn) Answer {
	start := time.Now()
	q := Query{Text: text, History: history}
	prev := Result{Outcome: NoAnswer}

	for _, s := range r.strategies {
		if s.Answer == nil || (s.RunIf != nil && !s.RunIf(prev)) {
			continue
		}

		res := r.attempt(ctx, s, q)
		if res.Outcome == Answered {
			r.recorder.ObserveResolution(string(s.Source), time.Since(start))
			return Answer{Text: res.Text, Source: s.Source}
		}
		if res.Err != nil {
			r.recorder.ObserveStrategyFailure(string(s.Source), res.Outcome.String())
			logx.Warn().
				Err(res.Err).
				Str("strategy", string(s.Source)).
				Str("outcome", res.Outcome.String()).
				Msg("answer strategy failed")
		}
		prev = res
	}

	r.recorder.ObserveResolution(string(SourceFallback), time.Since(start))
	return Answer{Text: r.fallback, Source: SourceFallback}
}

func (r *Resolver) attempt(ctx context.Context, s Strategy, q Query) Result {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	res := s.Answer(ctx, q)
	if res.Outcome == Answered {
		res.Text = strings.TrimSpace(res.Text)
		if res.Text == "" {
			res.Outcome = NoAnswer
		}
	}
	return res
}

// trimTail returns a copy of the last n turns.
func trimTail(turns []model.Turn, n int) []model.Turn {
	if n <= 0 {
		return nil
	}
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]model.Turn, len(turns))
	copy(out, turns)
	return out
}
