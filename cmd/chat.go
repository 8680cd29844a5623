package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/brastorne/lebo/internal/analytics"
	"github.com/brastorne/lebo/internal/chat"
	"github.com/brastorne/lebo/internal/config"
	"github.com/brastorne/lebo/internal/conversation"
	"github.com/brastorne/lebo/internal/i18n"
	"github.com/brastorne/lebo/internal/leads"
	"github.com/brastorne/lebo/internal/log"
	"github.com/brastorne/lebo/internal/state"
	"github.com/brastorne/lebo/internal/transport"
)

var (
	chatSession string
	chatFresh   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "local", "session ID to resume")
	chatCmd.Flags().BoolVar(&chatFresh, "new", false, "start a fresh session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	sessionID := chatSession
	if chatFresh {
		sessionID = uuid.NewString()
	}

	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer store.Close()

	var (
		leadStore      *leads.Store
		analyticsStore *analytics.Logger
	)
	if cfg.DatabaseURL != "" {
		pool, poolErr := openLeadPool(ctx, cfg.DatabaseURL)
		if poolErr != nil {
			logger.Warn("database unreachable, lead capture disabled", "error", poolErr)
		} else {
			defer pool.Close()
			leadStore = leads.New(pool, logger)
			analyticsStore = analytics.New(pool, logger)
			defer analyticsStore.Close()
		}
	}

	strategy := transport.Select(cfg)
	router := transport.NewRouter(strategy, logger)
	logger.Debug("transport selected", "strategy", router.StrategyName())

	ctrlCfg := conversation.Config{
		SessionID: sessionID,
		Router:    router,
		Store:     store,
		Logger:    logger,
	}
	if leadStore != nil {
		ctrlCfg.Leads = leadStore
	}
	if analyticsStore != nil {
		ctrlCfg.Analytics = analyticsStore
	}
	controller := conversation.New(ctrlCfg)
	if err := controller.Restore(ctx); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	return repl(ctx, controller, logger)
}

// repl runs the read-answer loop until EOF or /quit.
func repl(ctx context.Context, controller *conversation.Controller, logger log.Logger) error {
	out := os.Stdout
	fmt.Fprintln(out, i18n.Bilingual("cli.welcome"))
	fmt.Fprintln(out)

	printTail(out, controller.State())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			fmt.Fprintln(out, i18n.Bilingual("cli.goodbye"))
			return nil
		case "/reset":
			if err := controller.Reset(ctx); err != nil {
				logger.Error("reset failed", "error", err)
				continue
			}
			printTail(out, controller.State())
			continue
		}

		reply, err := controller.Send(ctx, line)
		switch {
		case errors.Is(err, conversation.ErrEmptyInput):
			continue
		case errors.Is(err, conversation.ErrBusy):
			fmt.Fprintln(out, "...")
			continue
		case err != nil:
			return err
		}
		fmt.Fprintln(out, reply.Content)
		fmt.Fprintln(out)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(out, i18n.Bilingual("cli.goodbye"))
	return nil
}

// printTail prints the most recent assistant message, so resumed
// sessions show where the conversation stands.
func printTail(out *os.File, st chat.State) {
	for i := len(st.Messages) - 1; i >= 0; i-- {
		if st.Messages[i].Role == chat.RoleAssistant {
			fmt.Fprintln(out, st.Messages[i].Content)
			fmt.Fprintln(out)
			return
		}
	}
}

func openLeadPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
