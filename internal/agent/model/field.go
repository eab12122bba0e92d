package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldName identifies one slot of the lead form. The declared order is the
// only legal collection order.
type FieldName int

const (
	FullName FieldName = iota
	Email
	PhoneNumber
	Address
	ProjectRequirement
	Deadline

	// NumFields is the number of collected fields.
	NumFields = int(Deadline) + 1
)

var fieldLabels = [NumFields]string{
	FullName:           "Full Name",
	Email:              "Email",
	PhoneNumber:        "Phone Number",
	Address:            "Address",
	ProjectRequirement: "Project Requirement",
	Deadline:           "Deadline",
}

// Fields returns every FieldName in collection order.
func Fields() []FieldName {
	out := make([]FieldName, NumFields)
	for i := range out {
		out[i] = FieldName(i)
	}
	return out
}

// Valid reports whether f is one of the declared fields.
func (f FieldName) Valid() bool {
	return f >= FullName && f <= Deadline
}

// String returns the human label, e.g. "Phone Number".
func (f FieldName) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FieldName(%d)", int(f))
	}
	return fieldLabels[f]
}

// ParseFieldName resolves a label back to its FieldName. Matching ignores case
// and surrounding whitespace.
func ParseFieldName(s string) (FieldName, error) {
	s = strings.TrimSpace(s)
	for i, label := range fieldLabels {
		if strings.EqualFold(label, s) {
			return FieldName(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

func (f FieldName) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid field %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *FieldName) UnmarshalText(b []byte) error {
	parsed, err := ParseFieldName(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Record holds the validated answers of one lead, indexed by FieldName.
// A field is present only once Set has been called for it; callers must
// validate before calling Set.
type Record struct {
	values [NumFields]string
	filled [NumFields]bool
}

// Set stores v under f.
func (r *Record) Set(f FieldName, v string) {
	if !f.Valid() {
		return
	}
	r.values[f] = v
	r.filled[f] = true
}

// Get returns the stored value and whether f is present.
func (r Record) Get(f FieldName) (string, bool) {
	if !f.Valid() || !r.filled[f] {
		return "", false
	}
	return r.values[f], true
}

// Value returns the stored value or "" when absent.
func (r Record) Value(f FieldName) string {
	v, _ := r.Get(f)
	return v
}

// Has reports whether f is present.
func (r Record) Has(f FieldName) bool {
	return f.Valid() && r.filled[f]
}

// Len returns the number of present fields.
func (r Record) Len() int {
	n := 0
	for _, ok := range r.filled {
		if ok {
			n++
		}
	}
	return n
}

// Complete reports whether all fields are present.
func (r Record) Complete() bool {
	return r.Len() == NumFields
}

// Clear removes every field.
func (r *Record) Clear() {
	*r = Record{}
}

// Map returns the present fields keyed by label.
func (r Record) Map() map[string]string {
	out := make(map[string]string, r.Len())
	for i, ok := range r.filled {
		if ok {
			out[fieldLabels[i]] = r.values[i]
		}
	}
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Record
	for k, v := range m {
		f, err := ParseFieldName(k)
		if err != nil {
			return err
		}
		out.Set(f, v)
	}
	*r = out
	return nil
}
