// Package transport selects and runs the backend that answers a chat
// query: a deterministic local mock, the backend HTTP service, or the
// managed function endpoint. Exactly one strategy executes per message;
// selection happens once, from static configuration.
//
// The router is the single place where pipeline failures become the
// user-visible bilingual fallback reply. Callers above it never see an
// error.
package transport

import (
	"context"
	"log/slog"
	"strings"

	"github.com/brastorne/lebo/internal/chat"
	"github.com/brastorne/lebo/internal/config"
	"github.com/brastorne/lebo/internal/i18n"
)

// Strategy answers one query against one backend deployment.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Reply returns the assistant reply for query given the trailing
	// history window.
	Reply(ctx context.Context, query string, history []chat.Message) (string, error)
}

// Select picks the strategy for the given configuration. A mode pointing
// at an unconfigured (or placeholder) endpoint degrades to the mock so
// local development never needs credentials.
func Select(cfg *config.Config) Strategy {
	switch cfg.Mode {
	case config.ModeBackend:
		if endpointConfigured(cfg.BackendURL) {
			return NewBackend(cfg.BackendURL)
		}
	case config.ModeFunction:
		if endpointConfigured(cfg.FunctionURL) {
			return NewFunction(cfg.FunctionURL, cfg.FunctionKey)
		}
	}
	return NewMock()
}

func endpointConfigured(url string) bool {
	return url != "" && !strings.Contains(url, "placeholder")
}

// Router runs the selected strategy and normalizes failures. Reply always
// returns usable text: on any strategy error it logs the detail and
// returns the bilingual apology with the office contact number.
type Router struct {
	strategy Strategy
	logger   *slog.Logger
}

// NewRouter creates a Router around a strategy. logger nil falls back to
// slog.Default().
func NewRouter(strategy Strategy, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{strategy: strategy, logger: logger}
}

// StrategyName returns the name of the active strategy.
func (r *Router) StrategyName() string {
	return r.strategy.Name()
}

// Reply answers a query, funneling every failure into the fallback reply.
func (r *Router) Reply(ctx context.Context, query string, history []chat.Message) string {
	reply, err := r.strategy.Reply(ctx, query, history)
	if err != nil {
		r.logger.Error("chat strategy failed",
			"strategy", r.strategy.Name(),
			"error", err)
		return i18n.Bilingual("chat.fallback")
	}
	return reply
}
