package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/damsole-chat/server/internal/agent/knowledge"
	"github.com/damsole-chat/server/internal/agent/model"
)

// ErrQuotaExceeded marks a completion failure caused by quota or rate limiting.
var ErrQuotaExceeded = errors.New("completion quota exceeded")

// Completer produces a generative answer from prior turns and the new message.
type Completer interface {
	Complete(ctx context.Context, history []model.Turn, message string) (string, error)
}

// Searcher looks a question up on the web. An empty string means nothing found.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// KnowledgeStrategy answers from the static knowledge base.
func KnowledgeStrategy(kb *knowledge.Base) Strategy {
	return Strategy{
		Source: SourceKnowledge,
		Answer: func(_ context.Context, q Query) Result {
			if answer, ok := kb.Answer(q.Text); ok {
				return Result{Outcome: Answered, Text: answer}
			}
			return Result{Outcome: NoAnswer}
		},
	}
}

// CompletionStrategy asks the completion service with the last historyTurns turns.
func CompletionStrategy(c Completer, historyTurns int, timeout time.Duration) Strategy {
	return Strategy{
		Source:  SourceCompletion,
		Timeout: timeout,
		Answer: func(ctx context.Context, q Query) Result {
			text, err := c.Complete(ctx, trimTail(q.History, historyTurns), q.Text)
			switch {
			case err == nil:
				return Result{Outcome: Answered, Text: text}
			case errors.Is(err, ErrQuotaExceeded):
				return Result{Outcome: TransientFailure, Err: err}
			default:
				return Result{Outcome: NoAnswer, Err: err}
			}
		},
	}
}

// SearchStrategy runs only after the completion service reported a quota failure.
func SearchStrategy(s Searcher, timeout time.Duration) Strategy {
	return Strategy{
		Source:  SourceSearch,
		Timeout: timeout,
		RunIf: func(prev Result) bool {
			return prev.Outcome == TransientFailure
		},
		Answer: func(ctx context.Context, q Query) Result {
			text, err := s.Search(ctx, q.Text)
			if err != nil {
				return Result{Outcome: NoAnswer, Err: err}
			}
			return Result{Outcome: Answered, Text: text}
		},
	}
}
