package api

import (
	"net/http"

	"github.com/brastorne/lebo/internal/log"
)

// corsHeaders is the permissive header set the managed-function surface
// answers with. Browser clients call this endpoint directly.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
}

// FunctionHandler serves the function-compatible chat surface:
// POST /functions/v1/chat-query, with CORS preflight support.
type FunctionHandler struct {
	answerer Answerer
	logger   log.Logger
}

// NewFunctionHandler creates the function surface handler.
func NewFunctionHandler(answerer Answerer, logger log.Logger) *FunctionHandler {
	return &FunctionHandler{answerer: answerer, logger: logger}
}

// RegisterRoutes registers the function routes on the given mux.
func (h *FunctionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /functions/v1/chat-query", h.handleQuery)
	mux.HandleFunc("OPTIONS /functions/v1/chat-query", h.handlePreflight)
}

func (h *FunctionHandler) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
}

func (h *FunctionHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	reply, status, errMsg := answer(r, h.answerer, h.logger)
	if errMsg != "" {
		writeError(w, h.logger, status, errMsg)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, ChatResponse{Reply: reply})
}

func setCORS(w http.ResponseWriter) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
}
