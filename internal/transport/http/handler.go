package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/internal/service/agent"
	"github.com/sandevgo/pixbot/internal/service/library"
	"github.com/sandevgo/pixbot/internal/service/session"
	"github.com/sandevgo/pixbot/pkg/log"
)

type Handler struct {
	agent          *agent.Agent
	library        *library.Library
	maxUploadBytes int64
}

func NewHandler(agent *agent.Agent, library *library.Library, maxUploadBytes int64) *Handler {
	return &Handler{
		agent:          agent,
		library:        library,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /agent/chat", h.handleChat)
	mux.HandleFunc("POST /agent/execute", h.handleExecute)
	mux.HandleFunc("GET /agent/actions", h.handleActions)
	mux.HandleFunc("GET /agent/status", h.handleStatus)
	mux.HandleFunc("POST /agent/session/create", h.handleSessionCreate)
	mux.HandleFunc("GET /agent/session/{id}", h.handleSessionGet)
	mux.HandleFunc("POST /storage/upload", h.handleUpload)
	mux.HandleFunc("GET /health", h.handleHealth)
}

type chatRequest struct {
	Query          string  `json:"query"`
	SessionID      string  `json:"session_id"`
	UserID         string  `json:"user_id"`
	TopK           int     `json:"top_k"`
	ScoreThreshold float64 `json:"score_threshold"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("invalid request body: %w", core.ErrValidation))
		return
	}

	resp, err := h.agent.Chat(r.Context(), agent.ChatRequest{
		Query:          req.Query,
		SessionID:      req.SessionID,
		UserID:         req.UserID,
		TopK:           req.TopK,
		ScoreThreshold: req.ScoreThreshold,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

type executeRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"parameters"`
}

type executeResponse struct {
	core.ActionResult
	Suggestions []string `json:"suggestions"`
}

func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("invalid request body: %w", core.ErrValidation))
		return
	}

	res, suggestions, err := h.agent.Execute(r.Context(), req.Action, req.Params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, executeResponse{ActionResult: res, Suggestions: suggestions})
}

func (h *Handler) handleActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"actions": h.agent.Actions()})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.agent.Status(r.Context()))
}

type sessionCreateRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req sessionCreateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("invalid request body: %w", core.ErrValidation))
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"session_id": h.agent.CreateSession(req.UserID)})
}

type sessionResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	HistoryCount int             `json:"history_count"`
	History      []session.Event `json:"history"`
	Context      map[string]any  `json:"context,omitempty"`
}

func (h *Handler) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.agent.GetSession(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse{
		ID:           snap.ID,
		UserID:       snap.UserID,
		CreatedAt:    snap.CreatedAt,
		HistoryCount: len(snap.History),
		History:      snap.History,
		Context:      snap.Context,
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, r, fmt.Errorf("invalid multipart form: %w", core.ErrValidation))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, fmt.Errorf("file field is required: %w", core.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	var tags []string
	if raw := strings.TrimSpace(r.FormValue("tags")); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	meta, err := h.library.Ingest(r.Context(), library.IngestRequest{
		Filename:    header.Filename,
		Data:        data,
		Tags:        tags,
		Description: r.FormValue("description"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, meta)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"name":    core.PixName,
		"version": core.PixVersion,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrUnknownAction):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrNotReady):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.FromCtx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
