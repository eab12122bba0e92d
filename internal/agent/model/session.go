package model

import "time"

// Mode selects which sub-protocol handles the next inbound message.
type Mode string

const (
	ModeSupport    Mode = "support"
	ModeCollecting Mode = "collecting"
)

// Role marks who produced a history turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Turn is one support-mode exchange entry.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session is the per-visitor conversation state.
//
// Invariants:
//   - Fields only ever holds validated values.
//   - While Mode is ModeCollecting, CurrentField is nil (recompute) or the
//     first field missing from Fields.
//   - A complete Fields never survives a turn; it is handed off and cleared.
//   - Generation only grows; Reset bumps it.
type Session struct {
	ID           string     `json:"id"`
	Generation   uint64     `json:"generation"`
	Mode         Mode       `json:"mode"`
	Fields       Record     `json:"fields"`
	CurrentField *FieldName `json:"current_field,omitempty"`
	History      []Turn     `json:"history"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewSession returns the initial support-mode state for id.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Mode:    ModeSupport,
		History: []Turn{},
	}
}

// Reset returns the session to its initial state, wiping history, and
// starts a new generation.
func (s *Session) Reset() {
	id, gen := s.ID, s.Generation
	*s = *NewSession(id)
	s.Generation = gen + 1
}

// BeginCollection switches to collecting mode with an empty form.
func (s *Session) BeginCollection() {
	s.Mode = ModeCollecting
	s.Fields.Clear()
	s.CurrentField = nil
}

// EndCollection switches back to support mode and drops the form. History is kept.
func (s *Session) EndCollection() {
	s.Mode = ModeSupport
	s.Fields.Clear()
	s.CurrentField = nil
}

// AppendTurn records one history entry.
func (s *Session) AppendTurn(role Role, text string) {
	s.History = append(s.History, Turn{Role: role, Text: text})
}

// Clone returns a deep copy safe to mutate independently.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.History = append([]Turn(nil), s.History...)
	if out.History == nil {
		out.History = []Turn{}
	}
	if s.CurrentField != nil {
		f := *s.CurrentField
		out.CurrentField = &f
	}
	return &out
}

// Reply is the outbound result of one turn.
type Reply struct {
	Text            string
	ShowSuggestions bool
	Suggestions     []string
}
