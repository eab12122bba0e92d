package observers

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestLastUserContent(t *testing.T) {
	msgs := []*schema.Message{
		schema.SystemMessage("persona"),
		schema.UserMessage("first"),
		schema.AssistantMessage("reply", nil),
		schema.UserMessage("  second  "),
		nil,
	}
	assert.Equal(t, "second", lastUserContent(msgs))
	assert.Empty(t, lastUserContent([]*schema.Message{schema.SystemMessage("only system")}))
	assert.Empty(t, lastUserContent(nil))
}

func TestNewCompletionCallbacks(t *testing.T) {
	assert.NotNil(t, NewCompletionCallbacks())
}
