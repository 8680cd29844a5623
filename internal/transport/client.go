package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brastorne/lebo/internal/chat"
)

const (
	// requestTimeout bounds one remote chat round-trip.
	requestTimeout = 30 * time.Second

	// maxRedirects caps redirect chains on remote calls.
	maxRedirects = 3

	// maxResponseBytes caps how much of a reply body is read.
	maxResponseBytes = 1 << 20
)

// chatRequest is the wire shape shared by the backend and function
// strategies.
type chatRequest struct {
	Query   string         `json:"query"`
	History []chat.Message `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// newHTTPClient builds the hardened client used by the remote strategies:
// bounded timeout and a capped redirect chain.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// postChat issues one chat request and decodes the reply. Non-2xx status
// or a malformed body is an error; the router turns it into the fallback.
func postChat(ctx context.Context, client *http.Client, url string, headers map[string]string, query string, history []chat.Message) (string, error) {
	body, err := json.Marshal(chatRequest{Query: query, History: history})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, firstLine(data))
	}

	var decoded chatResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if decoded.Reply == "" {
		return "", fmt.Errorf("response missing reply field")
	}
	return decoded.Reply, nil
}

func firstLine(data []byte) string {
	for i, b := range data {
		if b == '\n' {
			return string(data[:i])
		}
	}
	return string(data)
}
