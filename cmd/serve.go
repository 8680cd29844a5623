package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brastorne/lebo/api"
	"github.com/brastorne/lebo/internal/app"
	"github.com/brastorne/lebo/internal/config"
	"github.com/brastorne/lebo/internal/log"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat API server",
	Long: `Serve exposes the RAG pipeline over HTTP: POST /api/chat, the
function-compatible surface at POST /functions/v1/chat-query, and the
health probes. Without DATABASE_URL and GEMINI_API_KEY the chat
endpoints answer 503.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServer(cmd, api.NewServer)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// serverFactory builds a server from its wired collaborators. serve and
// function differ only in which routes the factory registers.
type serverFactory func(api.Answerer, api.Pinger, log.Logger, ...api.Option) *api.Server

func runServer(cmd *cobra.Command, factory serverFactory) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	var answerer api.Answerer
	if a.Orchestrator != nil {
		answerer = &queryAnswerer{app: a}
	}
	var pinger api.Pinger
	if a.DBPool != nil {
		pinger = a.DBPool
	}

	server := factory(answerer, pinger, logger, api.WithRateLimit(cfg.RateBurst))

	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	return server.Run(ctx, addr)
}
