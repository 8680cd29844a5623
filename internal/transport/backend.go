package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/brastorne/lebo/internal/chat"
)

// Backend calls the backend HTTP service's /api/chat endpoint.
type Backend struct {
	baseURL string
	client  *http.Client
}

// NewBackend creates the backend strategy for the given base URL.
func NewBackend(baseURL string) *Backend {
	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

// Name implements Strategy.
func (*Backend) Name() string { return "backend" }

// Reply implements Strategy.
func (b *Backend) Reply(ctx context.Context, query string, history []chat.Message) (string, error) {
	return postChat(ctx, b.client, b.baseURL+"/api/chat", nil, query, history)
}
