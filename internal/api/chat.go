package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/damsole-chat/server/internal/agent/model"
	errx "github.com/damsole-chat/server/internal/core/error"
	logx "github.com/damsole-chat/server/pkg/logger"
)

const maxChatBody = 64 << 10

// Chatter handles one visitor turn.
type Chatter interface {
	Handle(ctx context.Context, sessionID, message string) (model.Reply, error)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply           string   `json:"reply"`
	ShowSuggestions bool     `json:"showSuggestions,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// ChatHandler serves POST /chat.
type ChatHandler struct {
	engine Chatter
}

func NewChatHandler(engine Chatter) *ChatHandler {
	return &ChatHandler{engine: engine}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFromContext(r.Context())

	defer func() {
		if rec := recover(); rec != nil {
			logx.Error().
				Str("session_id", sessionID).
				Str("panic", fmt.Sprint(rec)).
				Msg("chat turn panicked")
			JSON(w, http.StatusInternalServerError, chatResponse{Reply: errx.SystemErrorMessage})
		}
	}()

	// A missing or malformed body is treated as an empty message.
	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxChatBody)).Decode(&req); err != nil && err != io.EOF {
		logx.Debug().Err(err).Str("session_id", sessionID).Msg("unreadable chat body")
		req = chatRequest{}
	}

	reply, err := h.engine.Handle(r.Context(), sessionID, req.Message)
	if err != nil {
		status := errx.StatusOf(err)
		if status >= http.StatusInternalServerError {
			logx.Error().Err(err).Str("session_id", sessionID).Msg("chat turn failed")
		}
		JSON(w, status, chatResponse{Reply: errx.MessageOf(err)})
		return
	}

	JSON(w, http.StatusOK, chatResponse{
		Reply:           reply.Text,
		ShowSuggestions: reply.ShowSuggestions,
		Suggestions:     reply.Suggestions,
	})
}
