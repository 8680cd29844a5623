// Package app wires the application together: Genkit, the PostgreSQL
// pool, the knowledge store, the RAG orchestrator and the side-effect
// stores. It owns resource lifecycle; commands consume the wired pieces.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brastorne/lebo/db"
	"github.com/brastorne/lebo/internal/analytics"
	"github.com/brastorne/lebo/internal/config"
	"github.com/brastorne/lebo/internal/knowledge"
	"github.com/brastorne/lebo/internal/leads"
	"github.com/brastorne/lebo/internal/log"
	"github.com/brastorne/lebo/internal/rag"
)

// App is the application container. When the RAG credentials are absent
// the chat fields stay nil and surfaces answer 503; the rest of the
// application still runs.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit    *genkit.Genkit
	Embedder  ai.Embedder
	DBPool    *pgxpool.Pool
	Knowledge *knowledge.Store

	Orchestrator *rag.Orchestrator
	Leads        *leads.Store
	Analytics    *analytics.Logger
}

// Setup wires the application. Missing chat credentials are not an
// error; the returned App simply has no orchestrator.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	if !cfg.ChatConfigured() {
		logger.Warn("chat pipeline not configured, knowledge answers disabled")
		return a, nil
	}

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := newDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	a.Genkit = genkit.Init(ctx,
		genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: cfg.GeminiAPIKey}),
	)
	a.Embedder = googlegenai.GoogleAIEmbedder(a.Genkit, cfg.EmbedderModel)

	a.Knowledge = knowledge.New(pool, a.Embedder, cfg.MatchThreshold, cfg.MatchCount, logger)
	generator := rag.NewGenkitGenerator(a.Genkit, cfg.ModelName)
	a.Orchestrator = rag.NewOrchestrator(a.Knowledge, a.Knowledge, generator, logger)

	a.Leads = leads.New(pool, logger)
	a.Analytics = analytics.New(pool, logger)

	return a, nil
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Close releases all resources in reverse dependency order.
func (a *App) Close() {
	if a.Analytics != nil {
		a.Analytics.Close()
	}
	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database pool closed")
	}
}
