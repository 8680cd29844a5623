package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brastorne/lebo/internal/log"
)

func functionMux(answerer Answerer) *http.ServeMux {
	mux := http.NewServeMux()
	NewFunctionHandler(answerer, log.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestFunctionPreflight(t *testing.T) {
	mux := functionMux(&mockAnswerer{})

	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/chat-query", nil)
	req.Header.Set("Origin", "https://brastorne.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "apikey")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestFunctionQuery(t *testing.T) {
	answerer := &mockAnswerer{reply: "Vuka works without data."}
	mux := functionMux(answerer)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/chat-query",
		strings.NewReader(`{"query":"What is Vuka?"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Vuka works without data.", resp.Reply)
	assert.Equal(t, "What is Vuka?", answerer.query)
}

func TestFunctionErrorsCarryCORS(t *testing.T) {
	mux := functionMux(nil)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/chat-query",
		strings.NewReader(`{"query":"What is Vuka?"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
