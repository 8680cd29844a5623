// Package analytics records query events for usage reporting. Logging is
// fire-and-forget: writes happen on background goroutines and failures
// never reach the conversation path.
package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// previewLen caps the stored query preview. Full queries are not
// retained.
const previewLen = 50

// writeTimeout bounds each background insert.
const writeTimeout = 10 * time.Second

// Execer is the database surface the logger needs. *pgxpool.Pool
// satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Logger records analytics events. A nil db disables recording; every
// method stays safe to call.
type Logger struct {
	db     Execer
	logger *slog.Logger
	wg     sync.WaitGroup
}

// New creates an analytics logger.
func New(db Execer, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{db: db, logger: logger}
}

const insertQuery = `
	INSERT INTO analytics_logs (event_type, service_tag, metadata)
	VALUES ($1, $2, $3)`

// LogQuery records one query event without blocking the caller. The
// stored metadata carries only a truncated preview of the query.
func (l *Logger) LogQuery(ctx context.Context, query string) {
	if l.db == nil {
		return
	}

	tag := classify(query)
	metadata, err := json.Marshal(map[string]string{"query_preview": preview(query)})
	if err != nil {
		l.logger.Warn("failed to encode analytics metadata", "error", err)
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
		defer cancel()
		if _, err := l.db.Exec(writeCtx, insertQuery, "query", tag, metadata); err != nil {
			l.logger.Warn("failed to record analytics event", "service_tag", tag, "error", err)
		}
	}()
}

// Close waits for in-flight writes to finish.
func (l *Logger) Close() {
	l.wg.Wait()
}

// classify tags a query with the service it mentions, or "general".
func classify(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "magri") || strings.Contains(q, "*157#"):
		return "magri"
	case strings.Contains(q, "mpotsa") || strings.Contains(q, "*152#"):
		return "mpotsa"
	case strings.Contains(q, "vuka") || strings.Contains(q, "*156#"):
		return "vuka"
	default:
		return "general"
	}
}

func preview(query string) string {
	runes := []rune(query)
	if len(runes) <= previewLen {
		return query
	}
	return string(runes[:previewLen])
}
