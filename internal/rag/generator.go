package rag

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// GenkitGenerator is the production Generator, backed by a Genkit model.
type GenkitGenerator struct {
	g     *genkit.Genkit
	model string
}

// NewGenkitGenerator creates a generator for the given provider-qualified
// model name (e.g. "googleai/gemini-1.5-flash").
func NewGenkitGenerator(g *genkit.Genkit, model string) *GenkitGenerator {
	return &GenkitGenerator{g: g, model: model}
}

// Generate runs one model call and returns its text. An empty text with a
// nil error is possible; the orchestrator substitutes the degraded
// message in that case.
func (gg *GenkitGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, gg.g,
		ai.WithModelName(gg.model),
		ai.WithPrompt("%s", prompt),
	)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
