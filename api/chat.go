package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/brastorne/lebo/internal/chat"
	"github.com/brastorne/lebo/internal/log"
	"github.com/brastorne/lebo/internal/rag"
)

// Answerer runs one query through the answer pipeline.
// rag.Orchestrator satisfies it.
type Answerer interface {
	Answer(ctx context.Context, query string, history []chat.Message) (string, error)
}

// ChatRequest is the chat endpoint request body.
type ChatRequest struct {
	Query   string         `json:"query"`
	History []chat.Message `json:"history,omitempty"`
}

// ChatResponse is the chat endpoint success body.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ChatHandler serves POST /api/chat.
type ChatHandler struct {
	answerer Answerer
	logger   log.Logger
}

// NewChatHandler creates a chat handler. answerer nil means the pipeline
// is unconfigured; requests answer 503.
func NewChatHandler(answerer Answerer, logger log.Logger) *ChatHandler {
	return &ChatHandler{answerer: answerer, logger: logger}
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
}

func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	reply, status, errMsg := answer(r, h.answerer, h.logger)
	if errMsg != "" {
		writeError(w, h.logger, status, errMsg)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, ChatResponse{Reply: reply})
}

// answer decodes and runs one chat request. It returns either a reply or
// a non-empty error message with its HTTP status; both chat surfaces
// share this contract.
func answer(r *http.Request, answerer Answerer, logger log.Logger) (reply string, status int, errMsg string) {
	var req ChatRequest
	if err := decodeBody(r, &req); err != nil {
		return "", http.StatusBadRequest, "invalid request body"
	}
	if req.Query == "" {
		return "", http.StatusBadRequest, "query is required"
	}
	if answerer == nil {
		return "", http.StatusServiceUnavailable, "chat service not configured"
	}

	reply, err := answerer.Answer(r.Context(), req.Query, req.History)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrRetrieval):
			logger.Error("retrieval failed", "error", err)
			return "", http.StatusInternalServerError, "knowledge retrieval failed"
		case errors.Is(err, rag.ErrGeneration):
			logger.Error("generation failed", "error", err)
			return "", http.StatusInternalServerError, "answer generation failed"
		default:
			logger.Error("chat pipeline failed", "error", err)
			return "", http.StatusInternalServerError, "internal error"
		}
	}
	return reply, http.StatusOK, ""
}
