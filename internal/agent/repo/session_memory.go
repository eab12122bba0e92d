package repo

import (
	"context"
	"sync"
	"time"

	"github.com/damsole-chat/server/internal/agent/model"
	logx "github.com/damsole-chat/server/pkg/logger"
)

type memoryEntry struct {
	session  *model.Session
	expireAt time.Time
}

// MemorySessionStore is a process-local session store. Entries idle longer
// than ttl are evicted lazily on Load and by a background sweeper.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMemorySessionStore starts the sweeper when both ttl and sweepEvery are positive.
// Callers must Close the store to stop it.
func NewMemorySessionStore(ttl, sweepEvery time.Duration) *MemorySessionStore {
	m := &MemorySessionStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if ttl > 0 && sweepEvery > 0 {
		go m.sweep(sweepEvery)
	} else {
		close(m.done)
	}
	return m
}

func (m *MemorySessionStore) Load(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return model.NewSession(id), nil
	}
	if m.expired(e) {
		delete(m.entries, id)
		return model.NewSession(id), nil
	}
	return e.session.Clone(), nil
}

func (m *MemorySessionStore) Save(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{session: s.Clone()}
	if m.ttl > 0 {
		e.expireAt = m.now().Add(m.ttl)
	}
	m.entries[s.ID] = e
	return nil
}

// Len reports the number of stored sessions, expired ones included until swept.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *MemorySessionStore) Close() error {
	m.once.Do(func() { close(m.stop) })
	<-m.done
	return nil
}

func (m *MemorySessionStore) expired(e memoryEntry) bool {
	return !e.expireAt.IsZero() && !m.now().Before(e.expireAt)
}

func (m *MemorySessionStore) sweep(every time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.evictExpired(); n > 0 {
				logx.Debug().Int("evicted", n).Msg("expired sessions evicted")
			}
		}
	}
}

func (m *MemorySessionStore) evictExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

var _ model.SessionRepository = (*MemorySessionStore)(nil)
