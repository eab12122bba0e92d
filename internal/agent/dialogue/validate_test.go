package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/damsole-chat/server/internal/agent/model"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		field model.FieldName
		input string
		ok    bool
		msg   string
	}{
		{"name ok", model.FullName, "Jane Doe", true, ""},
		{"name with dot", model.FullName, "Dr. A. Sharma", true, ""},
		{"name unicode", model.FullName, "José Ñúñez", true, ""},
		{"name too short", model.FullName, " J ", false, "Please provide your full name (at least 2 letters)."},
		{"name digits", model.FullName, "Jane 2", false, "Name should only contain letters, spaces, and dots."},

		{"email ok", model.Email, " jane.doe+x@example.co.in ", true, ""},
		{"email empty", model.Email, "   ", false, "Please provide a valid email address."},
		{"email bad", model.Email, "not-an-email", false, "Please enter a valid email address (e.g., name@example.com)."},

		{"phone ok", model.PhoneNumber, "(123) 456-7890", true, ""},
		{"phone intl", model.PhoneNumber, "+91 93569 17424", true, ""},
		{"phone short", model.PhoneNumber, "123-456", false, "Phone number must be at least 10 digits."},
		{"phone letters", model.PhoneNumber, "98765abc43210", false, "Phone number should only contain digits."},
		{"phone empty", model.PhoneNumber, "", false, "Please provide your phone number."},

		{"address ok", model.Address, "12 Main St", true, ""},
		{"address short", model.Address, "abc", false, "Please provide a complete address (at least 5 characters)."},

		{"requirement ok", model.ProjectRequirement, "app", true, ""},
		{"requirement short", model.ProjectRequirement, "ab", false, "Please tell us what you want to build (e.g., website, app, logo, software)."},

		{"deadline ok", model.Deadline, "5d", true, ""},
		{"deadline short", model.Deadline, " x ", false, "Please provide a deadline (e.g., 5 days, next month, 20th March)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := Validate(tt.field, tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestValidateUnknownField(t *testing.T) {
	ok, _ := Validate(model.FieldName(42), "anything")
	assert.False(t, ok)
}
