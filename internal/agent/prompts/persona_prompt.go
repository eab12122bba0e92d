package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/damsole-chat/server/internal/agent/model"
)

//go:embed template/persona_prompt.txt
var personaPrompt string

// RenderPersona renders the support-agent system prompt for the configured business.
func RenderPersona(ctx context.Context, business model.BusinessConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(personaPrompt),
	)
	vars := map[string]any{
		"BusinessName": business.Name,
		"Email":        business.Email,
		"Phone":        business.Phone,
		"Office":       business.Office,
		"Hours":        business.Hours,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("persona prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("persona prompt render: empty result")
	}
	return msgs[0].Content, nil
}
