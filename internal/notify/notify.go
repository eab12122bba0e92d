// Package notify tells the business about completed leads.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/damsole-chat/server/internal/agent/model"
)

const (
	Subject = "📩 New Lead - Damsole Technologies Support Chatbot"

	rule            = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	timestampLayout = "2006-01-02 15:04:05"
)

var fieldIcons = [model.NumFields]string{
	model.FullName:           "👤",
	model.Email:              "📧",
	model.PhoneNumber:        "📱",
	model.Address:            "📍",
	model.ProjectRequirement: "💼",
	model.Deadline:           "📅",
}

// FormatLead renders the plain-text admin message for lead.
func FormatLead(lead *model.Lead) string {
	var b strings.Builder
	b.WriteString("New Lead Received from Damsole Technologies Support Chatbot\n\n")
	b.WriteString(rule + "\n\n")
	b.WriteString("CLIENT DETAILS:\n\n")
	for _, f := range model.Fields() {
		v := lead.Record.Value(f)
		if v == "" {
			v = "N/A"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", fieldIcons[f], f, v)
	}
	b.WriteString("\n" + rule + "\n\n")

	at := lead.SubmittedAt
	if at.IsZero() {
		at = time.Now()
	}
	fmt.Fprintf(&b, "Timestamp: %s\n", at.Format(timestampLayout))
	if lead.Reference != "" {
		fmt.Fprintf(&b, "Reference: %s\n", lead.Reference)
	}
	b.WriteString("\nThis is an automated email from Damsole Technologies Support Chatbot.")
	return b.String()
}
