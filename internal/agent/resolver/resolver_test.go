package resolver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damsole-chat/server/internal/agent/knowledge"
	"github.com/damsole-chat/server/internal/agent/model"
)

type stubCompleter struct {
	reply   string
	err     error
	calls   atomic.Int32
	history []model.Turn
	block   bool
}

func (s *stubCompleter) Complete(ctx context.Context, history []model.Turn, _ string) (string, error) {
	s.calls.Add(1)
	s.history = history
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

type stubSearcher struct {
	reply string
	err   error
	calls atomic.Int32
}

func (s *stubSearcher) Search(context.Context, string) (string, error) {
	s.calls.Add(1)
	return s.reply, s.err
}

func newTestResolver(c Completer, s Searcher) *Resolver {
	return New([]Strategy{
		KnowledgeStrategy(knowledge.Default()),
		CompletionStrategy(c, 4, time.Second),
		SearchStrategy(s, time.Second),
	})
}

func TestResolveKnowledgeFirst(t *testing.T) {
	c := &stubCompleter{reply: "generated"}
	s := &stubSearcher{reply: "searched"}

	ans := newTestResolver(c, s).Resolve(context.Background(), "What services do you offer?", nil)

	assert.Equal(t, SourceKnowledge, ans.Source)
	assert.Contains(t, ans.Text, "We offer a wide range of services")
	assert.Zero(t, c.calls.Load())
	assert.Zero(t, s.calls.Load())
}

func TestResolveCompletion(t *testing.T) {
	c := &stubCompleter{reply: "  We build mobile apps too.  "}
	s := &stubSearcher{reply: "searched"}

	ans := newTestResolver(c, s).Resolve(context.Background(), "do you build mobile games", nil)

	assert.Equal(t, Answer{Text: "We build mobile apps too.", Source: SourceCompletion}, ans)
	assert.Zero(t, s.calls.Load())
}

func TestResolveSearchAfterQuota(t *testing.T) {
	c := &stubCompleter{err: classify(errors.New("Error 429, Status: RESOURCE_EXHAUSTED"))}
	s := &stubSearcher{reply: "Go is a programming language."}

	ans := newTestResolver(c, s).Resolve(context.Background(), "what is golang", nil)

	assert.Equal(t, SourceSearch, ans.Source)
	assert.Equal(t, "Go is a programming language.", ans.Text)
	assert.EqualValues(t, 1, s.calls.Load())
}

func TestResolveFallback(t *testing.T) {
	tests := []struct {
		name        string
		completer   *stubCompleter
		searcher    *stubSearcher
		searchCalls int32
	}{
		{
			name:      "non-quota failure skips search",
			completer: &stubCompleter{err: errors.New("invalid api key")},
			searcher:  &stubSearcher{reply: "searched"},
		},
		{
			name:      "empty completion skips search",
			completer: &stubCompleter{reply: "   "},
			searcher:  &stubSearcher{reply: "searched"},
		},
		{
			name:        "quota then search failure",
			completer:   &stubCompleter{err: classify(errors.New("quota exceeded"))},
			searcher:    &stubSearcher{err: errors.New("boom")},
			searchCalls: 1,
		},
		{
			name:        "quota then empty search",
			completer:   &stubCompleter{err: classify(errors.New("rate limit"))},
			searcher:    &stubSearcher{},
			searchCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ans := newTestResolver(tt.completer, tt.searcher).Resolve(context.Background(), "tell me a joke", nil)
			assert.Equal(t, Answer{Text: FallbackReply, Source: SourceFallback}, ans)
			assert.Equal(t, tt.searchCalls, tt.searcher.calls.Load())
		})
	}
}

func TestResolveCompletionTimeout(t *testing.T) {
	c := &stubCompleter{block: true}
	s := &stubSearcher{reply: "searched"}
	r := New([]Strategy{
		CompletionStrategy(c, 4, 20*time.Millisecond),
		SearchStrategy(s, time.Second),
	})

	start := time.Now()
	ans := r.Resolve(context.Background(), "anything", nil)

	assert.Equal(t, SourceFallback, ans.Source)
	assert.Less(t, time.Since(start), time.Second)
	assert.Zero(t, s.calls.Load())
}

func TestCompletionHistoryIsTrimmed(t *testing.T) {
	c := &stubCompleter{reply: "ok"}
	history := []model.Turn{
		{Role: model.RoleUser, Text: "1"},
		{Role: model.RoleAgent, Text: "2"},
		{Role: model.RoleUser, Text: "3"},
		{Role: model.RoleAgent, Text: "4"},
		{Role: model.RoleUser, Text: "5"},
		{Role: model.RoleAgent, Text: "6"},
	}

	New([]Strategy{CompletionStrategy(c, 4, 0)}).Resolve(context.Background(), "question", history)

	require.Len(t, c.history, 4)
	assert.Equal(t, "3", c.history[0].Text)
	assert.Equal(t, "6", c.history[3].Text)

	c.history[0].Text = "changed"
	assert.Equal(t, "3", history[2].Text)
}

func TestWithFallback(t *testing.T) {
	r := New(nil, WithFallback("custom"))
	assert.Equal(t, Answer{Text: "custom", Source: SourceFallback}, r.Resolve(context.Background(), "x", nil))

	r = New(nil, WithFallback("  "))
	assert.Equal(t, FallbackReply, r.Resolve(context.Background(), "x", nil).Text)
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, IsQuotaError(errors.New("googleapi: Error 429: Too Many Requests")))
	assert.True(t, IsQuotaError(errors.New("RESOURCE_EXHAUSTED")))
	assert.True(t, IsQuotaError(ErrQuotaExceeded))
	assert.False(t, IsQuotaError(errors.New("permission denied")))
	assert.False(t, IsQuotaError(nil))

	assert.ErrorIs(t, classify(errors.New("quota")), ErrQuotaExceeded)
	assert.NotErrorIs(t, classify(context.DeadlineExceeded), ErrQuotaExceeded)
}
