package dialogue

import "github.com/damsole-chat/server/internal/agent/model"

type slot struct {
	question string
	validate Validator
}

// slots is indexed by model.FieldName; its order is the collection order.
var slots = [model.NumFields]slot{
	model.FullName: {
		question: "Great! To get started, may I know your full name, please?",
		validate: ValidateFullName,
	},
	model.Email: {
		question: "Thank you! Could you please share your email address?",
		validate: ValidateEmail,
	},
	model.PhoneNumber: {
		question: "Perfect! What's your phone number?",
		validate: ValidatePhoneNumber,
	},
	model.Address: {
		question: "Got it! Could you please provide your address?",
		validate: ValidateAddress,
	},
	model.ProjectRequirement: {
		question: "Excellent! What would you like us to build for you? (e.g., website, mobile app, logo, software, etc.)",
		validate: ValidateProjectRequirement,
	},
	model.Deadline: {
		question: "Understood! By when would you like this project to be completed? (e.g., 5 days, next month, 20th March)",
		validate: ValidateDeadline,
	},
}

// Validate runs the validator registered for f.
func Validate(f model.FieldName, raw string) (bool, string) {
	if !f.Valid() {
		return false, "Unknown field."
	}
	return slots[f].validate(raw)
}

// Question returns the prompt asked for f.
func Question(f model.FieldName) string {
	if !f.Valid() {
		return ""
	}
	return slots[f].question
}

// NextField returns the first field missing from r, or false when r is complete.
func NextField(r model.Record) (model.FieldName, bool) {
	for _, f := range model.Fields() {
		if !r.Has(f) {
			return f, true
		}
	}
	return 0, false
}
