package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewCompletionCallbacks aggregates the prompt and model observers into one callbacks.Handler.
func NewCompletionCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Handler()
}
