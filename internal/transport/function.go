package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/brastorne/lebo/internal/chat"
)

// Function invokes the managed chat-query function. The contract matches
// the backend strategy; only the invocation surface differs: the call
// goes to the functions gateway with the project key in both the
// Authorization and apikey headers.
type Function struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewFunction creates the function strategy. baseURL is the functions
// gateway root (e.g. https://<project>.supabase.co/functions/v1).
func NewFunction(baseURL, apiKey string) *Function {
	return &Function{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  newHTTPClient(),
	}
}

// Name implements Strategy.
func (*Function) Name() string { return "function" }

// Reply implements Strategy.
func (f *Function) Reply(ctx context.Context, query string, history []chat.Message) (string, error) {
	headers := map[string]string{}
	if f.apiKey != "" {
		headers["Authorization"] = "Bearer " + f.apiKey
		headers["apikey"] = f.apiKey
	}
	return postChat(ctx, f.client, f.baseURL+"/chat-query", headers, query, history)
}
