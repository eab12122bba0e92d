package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/damsole-chat/server/internal/agent/dialogue"
	"github.com/damsole-chat/server/internal/agent/knowledge"
	"github.com/damsole-chat/server/internal/agent/model"
	"github.com/damsole-chat/server/internal/agent/prompts"
	"github.com/damsole-chat/server/internal/agent/repo"
	"github.com/damsole-chat/server/internal/agent/resolver"
	"github.com/damsole-chat/server/internal/metrics"
	"github.com/damsole-chat/server/internal/notify"
	logx "github.com/damsole-chat/server/pkg/logger"
)

// app owns the engine and every resource it was built from.
type app struct {
	engine   *dialogue.Engine
	registry *prometheus.Registry
	closers  []func() error
}

type appOptions struct {
	// forceMemory ignores SESSION_BACKEND and keeps sessions in process.
	forceMemory bool
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newApp(ctx context.Context, cfg AppConfig, opts appOptions) (_ *app, err error) {
	a := &app{registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(a.registry)

	sessions, locker, err := a.sessionStore(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	res, err := buildResolver(ctx, cfg, recorder)
	if err != nil {
		return nil, err
	}

	engineOpts := []dialogue.Option{
		dialogue.WithRecorder(recorder),
		dialogue.WithHandoffTimeout(cfg.Leads.HandoffTimeout),
		dialogue.WithNotifier(buildNotifier(cfg.Mail)),
		dialogue.WithSuggestions(cfg.Business.Suggestions),
	}
	if locker != nil {
		engineOpts = append(engineOpts, dialogue.WithLocker(locker))
	}
	if leads := a.leadRepository(cfg.Leads); leads != nil {
		engineOpts = append(engineOpts, dialogue.WithLeadRepository(leads))
	}

	a.engine = dialogue.NewEngine(sessions, res, engineOpts...)
	return a, nil
}

// sessionStore builds the configured session backend. The redis backend also
// returns a lease-based locker so replicas serialize turns per session; the
// memory backend returns nil and the engine keeps its in-process lock.
func (a *app) sessionStore(ctx context.Context, cfg AppConfig, opts appOptions) (model.SessionRepository, dialogue.Locker, error) {
	if cfg.Session.Backend == "redis" && !opts.forceMemory {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		logx.Info().Str("addr", rdb.Options().Addr).Dur("ttl", cfg.Session.TTL).Msg("redis session store ready")
		return repo.NewRedisSessionStore(rdb, cfg.Session.TTL), repo.NewRedisSessionLocker(rdb, cfg.Session.LockTTL), nil
	}
	if cfg.Session.Backend != "memory" && cfg.Session.Backend != "redis" {
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	store := repo.NewMemorySessionStore(cfg.Session.TTL, cfg.Session.SweepInterval)
	a.closers = append(a.closers, store.Close)
	logx.Info().Dur("ttl", cfg.Session.TTL).Msg("in-memory session store ready")
	return store, nil, nil
}

var _ dialogue.Locker = (*repo.RedisSessionLocker)(nil)

// leadRepository opens the lead database. A failure disables persistence
// instead of the whole service.
func (a *app) leadRepository(cfg model.LeadStoreConfig) *repo.SQLiteLeadRepository {
	if cfg.DBPath == "" {
		logx.Warn().Msg("LEADS_DB_PATH is empty, leads will not be persisted")
		return nil
	}
	leads, err := repo.NewSQLiteLeadRepository(cfg.DBPath)
	if err != nil {
		logx.Warn().Err(err).Str("path", cfg.DBPath).Msg("lead database unavailable, leads will not be persisted")
		return nil
	}
	a.closers = append(a.closers, leads.Close)
	logx.Info().Str("path", cfg.DBPath).Msg("lead database ready")
	return leads
}

func buildNotifier(cfg model.MailConfig) model.Notifier {
	n, err := notify.NewEmailNotifier(cfg)
	if err != nil {
		logx.Warn().Err(err).Msg("email notifier disabled, leads will be logged only")
		return notify.LogNotifier{}
	}
	return n
}

func buildResolver(ctx context.Context, cfg AppConfig, recorder metrics.Recorder) (*resolver.Resolver, error) {
	strategies := []resolver.Strategy{
		resolver.KnowledgeStrategy(knowledge.Default()),
	}

	if cfg.Completion.APIKey != "" {
		persona, err := prompts.RenderPersona(ctx, cfg.Business)
		if err != nil {
			return nil, fmt.Errorf("render persona prompt: %w", err)
		}
		cm, err := resolver.NewGeminiChatModel(ctx, cfg.Completion)
		if err != nil {
			return nil, err
		}
		completer, err := resolver.NewChatCompleter(ctx, cm, persona, cfg.Completion.Model)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies,
			resolver.CompletionStrategy(completer, cfg.Completion.HistoryTurns, cfg.Completion.Timeout))
		logx.Info().Str("model", cfg.Completion.Model).Msg("completion strategy enabled")
	} else {
		logx.Warn().Msg("GEMINI_API_KEY not set, completion strategy disabled")
	}

	if cfg.Search.Enabled {
		searcher := resolver.NewDuckDuckGoSearcher(cfg.Search.Endpoint, cfg.Search.Timeout)
		strategies = append(strategies, resolver.SearchStrategy(searcher, cfg.Search.Timeout))
	}

	return resolver.New(strategies, resolver.WithRecorder(recorder)), nil
}
