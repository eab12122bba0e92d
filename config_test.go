package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damsole-chat/server/internal/agent/dialogue"
	"github.com/damsole-chat/server/internal/core"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, core.Development, cfg.Env())
	assert.Equal(t, ":5000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Completion.Model)
	assert.Equal(t, 4, cfg.Completion.HistoryTurns)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, 10*time.Second, cfg.Session.LockTTL)
	assert.Empty(t, cfg.Business.Suggestions)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://damsole.com,https://www.damsole.com")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_SHARED_IDENTITY", "single_user")
	t.Setenv("COMPLETION_TIMEOUT", "3s")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("LEADS_DB_PATH", "/var/lib/damsole/leads.db")
	t.Setenv("CHAT_SUGGESTIONS", "Pricing,Contact us")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.True(t, cfg.Env().IsProduction())
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://damsole.com", "https://www.damsole.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "single_user", cfg.Session.SharedIdentity)
	assert.Equal(t, 3*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "/var/lib/damsole/leads.db", cfg.Leads.DBPath)
	assert.Equal(t, []string{"Pricing", "Contact us"}, cfg.Business.Suggestions)
}

func TestNewAppWithoutCollaborators(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	cfg.Completion.APIKey = ""
	cfg.Search.Enabled = false
	cfg.Leads.DBPath = filepath.Join(t.TempDir(), "leads.db")

	ctx := context.Background()
	a, err := newApp(ctx, cfg, appOptions{forceMemory: true})
	require.NoError(t, err)
	defer a.Close()

	reply, err := a.engine.Handle(ctx, "v", "what are your services")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "We offer a wide range of services")

	reply, err = a.engine.Handle(ctx, "v", "how is the weather")
	require.NoError(t, err)
	assert.True(t, reply.ShowSuggestions)

	_, err = a.engine.Handle(ctx, "v", "I want to create website")
	require.NoError(t, err)
	for _, answer := range []string{"Jane Doe", "jane@example.com", "(123) 456-7890", "12 Main Street, Pune", "An e-commerce website", "next month"} {
		reply, err = a.engine.Handle(ctx, "v", answer)
		require.NoError(t, err)
	}
	assert.Equal(t, dialogue.SuccessReply, reply.Text)
}

func TestUnknownSessionBackend(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	cfg.Session.Backend = "etcd"

	_, err = newApp(context.Background(), cfg, appOptions{})
	assert.ErrorContains(t, err, "unknown session backend")
}

func TestNewAppRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	cfg.Session.Backend = "redis"
	cfg.Redis.URL = "redis://" + mr.Addr() + "/0"
	cfg.Completion.APIKey = ""
	cfg.Search.Enabled = false
	cfg.Leads.DBPath = filepath.Join(t.TempDir(), "leads.db")
	cfg.Business.Suggestions = []string{"Pricing"}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, appOptions{})
	require.NoError(t, err)
	defer a.Close()

	reply, err := a.engine.Handle(ctx, "v", "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pricing"}, reply.Suggestions)
	assert.True(t, mr.Exists("session:v"))
	// the lease is released once the turn is done
	assert.False(t, mr.Exists("session-lock:v"))
}
