// Package api exposes the chat engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"

	logx "github.com/damsole-chat/server/pkg/logger"
)

// RouterDeps are the collaborators the HTTP surface needs.
type RouterDeps struct {
	Engine Chatter
	// Gatherer backs GET /metrics; nil disables the route.
	Gatherer prometheus.Gatherer
	// SharedIdentity maps every request to one session key when set.
	SharedIdentity string
}

// NewRouter builds the chi router with global middleware and all routes.
func NewRouter(cfg Config, deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(hlog.NewHandler(*logx.Logger()))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(chiMiddleware.Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))

	r.Get("/health", health)
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(Identity(deps.SharedIdentity, cfg.SecureCookie))
		r.Method(http.MethodPost, "/chat", NewChatHandler(deps.Engine))
	})

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chiMiddleware.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// NewServer wraps the router in an http.Server using cfg timeouts.
func NewServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
