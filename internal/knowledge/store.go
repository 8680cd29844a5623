package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// matchQuery invokes the stored similarity-search function. Rows come
// back ordered by similarity descending, already filtered to the
// threshold and capped to the count.
const matchQuery = `SELECT service_name, content, metadata, similarity
FROM match_knowledge_base($1, $2, $3)`

const upsertQuery = `INSERT INTO knowledge_base (service_name, content, embedding, metadata)
VALUES ($1, $2, $3, $4)
ON CONFLICT (service_name) DO UPDATE SET
	content = EXCLUDED.content,
	embedding = EXCLUDED.embedding,
	metadata = EXCLUDED.metadata,
	updated_at = now()`

// Querier is the subset of pgxpool.Pool the store needs. Defined here,
// by the consumer, so tests can substitute a mock.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the vector store client. It is safe for concurrent use.
type Store struct {
	db        Querier
	embedder  ai.Embedder
	threshold float64
	count     int
	logger    *slog.Logger
}

// New creates a Store. threshold and count bound every search; logger
// nil falls back to slog.Default().
func New(db Querier, embedder ai.Embedder, threshold float64, count int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:        db,
		embedder:  embedder,
		threshold: threshold,
		count:     count,
		logger:    logger,
	}
}

// Embed generates the embedding vector for a query string.
func (s *Store) Embed(ctx context.Context, text string) ([]float32, error) {
	return EmbedText(ctx, s.embedder, text)
}

// Match runs the similarity search for the given query embedding. The
// database orders and filters; Filter re-applies threshold and cap so the
// contract holds for any Querier implementation.
func (s *Store) Match(ctx context.Context, embedding []float32) ([]Result, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx, matchQuery, vec, s.threshold, s.count)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r        Result
			metadata []byte
		)
		if err := rows.Scan(&r.Entry.ServiceName, &r.Entry.Content, &metadata, &r.Similarity); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &r.Entry.Metadata); err != nil {
				s.logger.Warn("failed to parse metadata", "service", r.Entry.ServiceName, "error", err)
				r.Entry.Metadata = map[string]string{}
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading search rows: %w", err)
	}

	return Filter(results, s.threshold, s.count), nil
}

// Upsert embeds an entry's content and writes it to the knowledge base,
// keyed by service name with last-write-wins conflict resolution.
func (s *Store) Upsert(ctx context.Context, entry Entry) error {
	embedding, err := s.Embed(ctx, entry.Content)
	if err != nil {
		return fmt.Errorf("embedding %q: %w", entry.ServiceName, err)
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %q: %w", entry.ServiceName, err)
	}

	vec := pgvector.NewVector(embedding)
	if _, err := s.db.Exec(ctx, upsertQuery, entry.ServiceName, entry.Content, vec, metadata); err != nil {
		return fmt.Errorf("upserting %q: %w", entry.ServiceName, err)
	}

	s.logger.Debug("upserted knowledge entry", "service", entry.ServiceName, "content_length", len(entry.Content))
	return nil
}
