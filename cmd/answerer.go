package cmd

import (
	"context"

	"github.com/brastorne/lebo/internal/app"
	"github.com/brastorne/lebo/internal/chat"
)

// queryAnswerer runs server-side queries through the orchestrator and
// records an analytics event per query, best-effort.
type queryAnswerer struct {
	app *app.App
}

func (q *queryAnswerer) Answer(ctx context.Context, query string, history []chat.Message) (string, error) {
	if q.app.Analytics != nil {
		q.app.Analytics.LogQuery(ctx, query)
	}
	return q.app.Orchestrator.Answer(ctx, query, history)
}
