package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/damsole-chat/server/internal/agent/model"
	"github.com/damsole-chat/server/internal/agent/observers"
	logx "github.com/damsole-chat/server/pkg/logger"
)

const (
	varSystemPrompt = "system_prompt"
	varHistory      = "history"
	varQuestion     = "question"
)

// ChatCompleter answers support questions with a chat model behind an eino chain.
type ChatCompleter struct {
	runnable  compose.Runnable[map[string]any, *schema.Message]
	system    string
	modelName string
}

// NewGeminiChatModel builds the Gemini chat model used for support answers.
func NewGeminiChatModel(ctx context.Context, cfg model.CompletionModelConfig) (*gemini.ChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is not set")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	temperature := cfg.Temperature
	maxTokens := cfg.MaxTokens
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating completion model")
		return nil, fmt.Errorf("error creating completion model: %w", err)
	}
	return cm, nil
}

// NewChatCompleter compiles the template -> model chain once.
func NewChatCompleter(ctx context.Context, cm einomodel.BaseChatModel, systemPrompt, modelName string) (*ChatCompleter, error) {
	if cm == nil {
		return nil, errors.New("chat model is nil")
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{"+varSystemPrompt+"}"),
		schema.MessagesPlaceholder(varHistory, true),
		schema.UserMessage("{"+varQuestion+"}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(tpl).AppendChatModel(cm)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile completion chain: %w", err)
	}

	return &ChatCompleter{
		runnable:  runnable,
		system:    systemPrompt,
		modelName: modelName,
	}, nil
}

// Complete implements Completer. Quota and rate-limit failures wrap ErrQuotaExceeded.
func (c *ChatCompleter) Complete(ctx context.Context, history []model.Turn, message string) (string, error) {
	in := map[string]any{
		varSystemPrompt: c.system,
		varHistory:      toSchemaMessages(history),
		varQuestion:     message,
	}

	out, err := c.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewCompletionCallbacks()))
	if err != nil {
		return "", classify(err)
	}
	if out == nil {
		return "", errors.New("completion returned no message")
	}

	c.logUsage(out)
	return strings.TrimSpace(out.Content), nil
}

func (c *ChatCompleter) logUsage(out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(c.modelName))
	logx.Debug().
		Str("model", c.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

func toSchemaMessages(turns []model.Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case model.RoleUser:
			msgs = append(msgs, schema.UserMessage(t.Text))
		case model.RoleAgent:
			msgs = append(msgs, schema.AssistantMessage(t.Text, nil))
		}
	}
	return msgs
}
