package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/damsole-chat/server/pkg/logger"
)

// newModelHandler logs the latest visitor message and the model reply around each completion.
func newModelHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			if input == nil {
				return ctx
			}
			logx.Debug().
				Str("component", string(info.Component)).
				Str("name", info.Name).
				Int("messages", len(input.Messages)).
				Str("user", lastUserContent(input.Messages)).
				Msg("completion start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			ev := logx.Debug().Str("name", info.Name)
			if output != nil && output.Message != nil {
				ev = ev.Int("reply_len", len(strings.TrimSpace(output.Message.Content)))
			}
			if output != nil && output.TokenUsage != nil {
				ev = ev.Int("prompt_tokens", output.TokenUsage.PromptTokens).
					Int("completion_tokens", output.TokenUsage.CompletionTokens)
			}
			ev.Msg("completion end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("name", info.Name).Msg("completion error")
			return ctx
		},
	}
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}
		if m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}
