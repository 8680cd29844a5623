package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brastorne/lebo/internal/chat"
	"github.com/brastorne/lebo/internal/log"
	"github.com/brastorne/lebo/internal/rag"
)

// mockAnswerer records the last call and returns canned output.
type mockAnswerer struct {
	reply   string
	err     error
	query   string
	history []chat.Message
}

func (m *mockAnswerer) Answer(_ context.Context, query string, history []chat.Message) (string, error) {
	m.query = query
	m.history = history
	return m.reply, m.err
}

func postChatRequest(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func chatMux(answerer Answerer) *http.ServeMux {
	mux := http.NewServeMux()
	NewChatHandler(answerer, log.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestChatSuccess(t *testing.T) {
	answerer := &mockAnswerer{reply: "mAgri is our agricultural platform."}
	mux := chatMux(answerer)

	history := []chat.Message{{ID: "1", Role: chat.RoleUser, Content: "hi"}}
	historyJSON, err := json.Marshal(history)
	require.NoError(t, err)

	rec := postChatRequest(t, mux, fmt.Sprintf(`{"query":"What is mAgri?","history":%s}`, historyJSON))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "mAgri is our agricultural platform.", resp.Reply)
	assert.Equal(t, "What is mAgri?", answerer.query)
	require.Len(t, answerer.history, 1)
	assert.Equal(t, "hi", answerer.history[0].Content)
}

func TestChatMissingQuery(t *testing.T) {
	mux := chatMux(&mockAnswerer{reply: "unused"})

	for _, body := range []string{`{}`, `{"query":""}`} {
		rec := postChatRequest(t, mux, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "query is required", resp.Error)
	}
}

func TestChatMalformedBody(t *testing.T) {
	mux := chatMux(&mockAnswerer{})

	rec := postChatRequest(t, mux, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatUnconfigured(t *testing.T) {
	mux := chatMux(nil)

	rec := postChatRequest(t, mux, `{"query":"What is mAgri?"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chat service not configured", resp.Error)
}

func TestChatPipelineErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"retrieval", fmt.Errorf("%w: search: timeout", rag.ErrRetrieval), "knowledge retrieval failed"},
		{"generation", fmt.Errorf("%w: model: quota", rag.ErrGeneration), "answer generation failed"},
		{"unclassified", errors.New("boom"), "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := chatMux(&mockAnswerer{err: tt.err})

			rec := postChatRequest(t, mux, `{"query":"What is mAgri?"}`)
			require.Equal(t, http.StatusInternalServerError, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}

func TestChatRejectsOversizedBody(t *testing.T) {
	mux := chatMux(&mockAnswerer{})

	big := bytes.Repeat([]byte("a"), maxRequestBytes+1)
	body := fmt.Sprintf(`{"query":%q}`, big)
	rec := postChatRequest(t, mux, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatMethodNotAllowed(t *testing.T) {
	mux := chatMux(&mockAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
