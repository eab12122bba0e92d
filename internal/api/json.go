package api

import (
	"encoding/json"
	"net/http"

	logx "github.com/damsole-chat/server/pkg/logger"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}
