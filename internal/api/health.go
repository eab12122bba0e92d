package api

import "net/http"

type healthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Chatbot   string            `json:"chatbot"`
	Endpoints map[string]string `json:"endpoints"`
}

func health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "Damsole Support Chatbot is running",
		Chatbot: "Available",
		Endpoints: map[string]string{
			"chat":   "/chat",
			"health": "/health",
		},
	})
}
