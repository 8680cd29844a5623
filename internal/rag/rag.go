// Package rag implements the retrieval-augmented generation pipeline:
// embed the query, search the knowledge base, assemble context, build the
// prompt and generate a reply.
//
// The orchestrator classifies failures with the ErrRetrieval and
// ErrGeneration sentinels so HTTP surfaces can map them to status codes.
// Converting failures into the user-visible fallback reply is the
// transport router's job; raw errors never reach the conversation layer.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brastorne/lebo/internal/chat"
	"github.com/brastorne/lebo/internal/knowledge"
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrRetrieval indicates the embedding call or the vector search failed.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration indicates the model call failed.
	ErrGeneration = errors.New("generation failed")
)

// degradedMessage replaces a reply when the model responds but its output
// is empty or malformed. A degraded answer beats a failed request.
const degradedMessage = "I'm having trouble thinking right now."

// hopTimeout bounds each network round-trip. There is no cancellation
// primitive above this layer; an in-flight answer runs to completion or
// to its timeout.
const hopTimeout = 30 * time.Second

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher returns the entries most similar to a query embedding.
type Searcher interface {
	Match(ctx context.Context, embedding []float32) ([]knowledge.Result, error)
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Orchestrator sequences embedding, search, prompt assembly and
// generation. knowledge.Store satisfies both Embedder and Searcher.
type Orchestrator struct {
	embedder  Embedder
	searcher  Searcher
	generator Generator
	logger    *slog.Logger
}

// NewOrchestrator creates an Orchestrator. logger nil falls back to
// slog.Default().
func NewOrchestrator(embedder Embedder, searcher Searcher, generator Generator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		embedder:  embedder,
		searcher:  searcher,
		generator: generator,
		logger:    logger,
	}
}

// Answer runs the full pipeline for one query. history is the trailing
// message window supplied by the caller. An empty retrieval result is not
// an error; it substitutes a placeholder so the model can escalate to the
// office number.
func (o *Orchestrator) Answer(ctx context.Context, query string, history []chat.Message) (string, error) {
	embedCtx, cancel := context.WithTimeout(ctx, hopTimeout)
	defer cancel()
	embedding, err := o.embedder.Embed(embedCtx, query)
	if err != nil {
		return "", fmt.Errorf("%w: embedding query: %w", ErrRetrieval, err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, hopTimeout)
	defer cancel()
	results, err := o.searcher.Match(searchCtx, embedding)
	if err != nil {
		return "", fmt.Errorf("%w: searching knowledge base: %w", ErrRetrieval, err)
	}

	contextText := AssembleContext(results)
	prompt, err := BuildPrompt(query, contextText, history)
	if err != nil {
		return "", fmt.Errorf("%w: building prompt: %w", ErrGeneration, err)
	}

	genCtx, cancel := context.WithTimeout(ctx, hopTimeout)
	defer cancel()
	reply, err := o.generator.Generate(genCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	if strings.TrimSpace(reply) == "" {
		o.logger.Warn("model returned empty reply, substituting degraded message", "query_length", len(query))
		return degradedMessage, nil
	}

	o.logger.Debug("answered query", "matches", len(results), "reply_length", len(reply))
	return reply, nil
}
