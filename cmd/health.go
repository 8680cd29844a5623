package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/spf13/cobra"

	"github.com/brastorne/lebo/internal/config"
	"github.com/brastorne/lebo/internal/log"
)

const healthTimeout = 10 * time.Second

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the database and the backend",
	Long: `Health verifies the deployment end to end: the knowledge_base
table is reachable, the match_knowledge_base function answers, and the
backend /health endpoint responds. Checks that cannot run with the
current configuration are reported and skipped.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var failures int
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, skipping database checks")
	} else if err := checkDatabase(ctx, cfg.DatabaseURL, logger); err != nil {
		logger.Error("database check failed", "error", err)
		failures++
	}

	if cfg.BackendURL == "" {
		logger.Warn("backend URL not set, skipping backend check")
	} else if err := checkBackend(ctx, cfg.BackendURL, logger); err != nil {
		logger.Error("backend check failed", "error", err)
		failures++
	}

	if failures > 0 {
		return fmt.Errorf("%d health check(s) failed", failures)
	}
	logger.Info("health check complete")
	return nil
}

// checkDatabase verifies table access and the similarity function with a
// zero vector.
func checkDatabase(ctx context.Context, databaseURL string, logger log.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer pool.Close()

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM knowledge_base`).Scan(&count); err != nil {
		return fmt.Errorf("knowledge_base access: %w", err)
	}
	logger.Info("knowledge base reachable", "entries", count)

	zero := pgvector.NewVector(make([]float32, 768))
	rows, err := pool.Query(ctx, `SELECT service_name FROM match_knowledge_base($1, $2, $3)`, zero, 0.5, 1)
	if err != nil {
		return fmt.Errorf("match_knowledge_base: %w", err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("match_knowledge_base: %w", err)
	}
	logger.Info("similarity function active")
	return nil
}

// checkBackend probes the backend liveness endpoint.
func checkBackend(ctx context.Context, backendURL string, logger log.Logger) error {
	healthURL, err := url.JoinPath(strings.TrimSuffix(backendURL, "/"), "health")
	if err != nil {
		return fmt.Errorf("building health URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("reaching %s: %w", healthURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s answered %d", healthURL, resp.StatusCode)
	}
	logger.Info("backend responding", "url", healthURL)
	return nil
}
