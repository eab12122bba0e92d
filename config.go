package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/damsole-chat/server/internal/agent/model"
	"github.com/damsole-chat/server/internal/api"
	"github.com/damsole-chat/server/internal/core"
	logx "github.com/damsole-chat/server/pkg/logger"
	pkgredis "github.com/damsole-chat/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the chat server,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	HTTP  api.Config
	Redis pkgredis.Config

	// Agent configs
	Session    model.SessionConfig
	Completion model.CompletionModelConfig
	Search     model.SearchConfig
	Business   model.BusinessConfig
	Leads      model.LeadStoreConfig
	Mail       model.MailConfig
}

func (c AppConfig) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

// loadConfig reads .env when present, then binds the environment.
func loadConfig(envFile string) (AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil {
		logx.Debug().Str("file", envFile).Msg("no .env file loaded, using environment variables")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}
