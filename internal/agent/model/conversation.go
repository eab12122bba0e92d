package model

import (
	"context"
	"time"
)

// SessionRepository stores sessions by conversation identity.
type SessionRepository interface {
	// Load returns the stored session for id, or a fresh support-mode session when none exists.
	Load(ctx context.Context, id string) (*Session, error)

	// Save persists s under s.ID, replacing any previous state.
	Save(ctx context.Context, s *Session) error
}

// Lead is a completed form extracted from a session.
type Lead struct {
	Reference   string
	SessionID   string
	Record      Record
	SubmittedAt time.Time
}

// LeadRepository persists completed leads.
type LeadRepository interface {
	SaveLead(ctx context.Context, lead *Lead) error
}

// Notifier tells the business about a completed lead.
type Notifier interface {
	Notify(ctx context.Context, lead *Lead) error
}
