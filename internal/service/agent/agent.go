package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/pixbot/internal/config"
	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/internal/service/session"
	"github.com/sandevgo/pixbot/pkg/log"
)

// Agent is the dispatch core: it owns the session store and ties the
// classifier, optimizer, executor and responder into one conversational
// pipeline. Constructed once in the entry point and injected into the
// transports; there is no package-level instance.
type Agent struct {
	cfg        *config.AppConfig
	sessions   *session.Store
	classifier Classifier
	optimizer  Optimizer
	executor   *Executor
	responder  *Responder
}

func NewAgent(
	cfg *config.AppConfig,
	sessions *session.Store,
	classifier Classifier,
	optimizer Optimizer,
	executor *Executor,
	responder *Responder,
) *Agent {
	return &Agent{
		cfg:        cfg,
		sessions:   sessions,
		classifier: classifier,
		optimizer:  optimizer,
		executor:   executor,
		responder:  responder,
	}
}

type ChatRequest struct {
	Query          string
	SessionID      string
	UserID         string
	TopK           int
	ScoreThreshold float64
}

type ChatResponse struct {
	SessionID      string         `json:"session_id"`
	Answer         string         `json:"answer"`
	Intent         core.Intent    `json:"intent"`
	OptimizedQuery string         `json:"optimized_query"`
	Results        map[string]any `json:"results,omitempty"`
	Suggestions    []string       `json:"suggestions"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Chat runs one conversational turn: resolve or create the session, classify
// the query, optimize it (recorded into history), dispatch the backend action
// and synthesize the reply. The optimize event is the only session write of a
// turn, so a dispatch cancelled mid-flight leaves no half-written history.
func (a *Agent) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return ChatResponse{}, fmt.Errorf("query must not be empty: %w", core.ErrValidation)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = a.cfg.DefaultTopK
	}

	// An id that does not resolve gets a fresh session, same as no id.
	sessionID := req.SessionID
	if sessionID == "" || !a.sessions.Exists(sessionID) {
		sessionID = a.sessions.Create(req.UserID)
	}

	intentRes := a.classifier.Classify(req.Query)

	optimized := a.optimizer.Optimize(req.Query, sessionID)

	log.FromCtx(ctx).Info().
		Str("session_id", sessionID).
		Str("intent", string(intentRes.Intent)).
		Float64("confidence", intentRes.Confidence).
		Msg("chat turn")

	results, err := a.executor.DispatchIntent(ctx, intentRes.Intent, optimized, topK, req.ScoreThreshold)
	if err != nil {
		return ChatResponse{}, err
	}

	return ChatResponse{
		SessionID:      sessionID,
		Answer:         a.responder.Answer(intentRes.Intent, results, req.Query),
		Intent:         intentRes.Intent,
		OptimizedQuery: optimized,
		Results:        results,
		Suggestions:    a.responder.Suggest(intentRes.Intent, results),
		Timestamp:      time.Now(),
	}, nil
}

// Execute runs one catalog action directly, bypassing classification. The
// returned suggestions follow the executed action's outcome.
func (a *Agent) Execute(ctx context.Context, action string, params map[string]any) (core.ActionResult, []string, error) {
	res, err := a.executor.Execute(ctx, action, params)
	if err != nil {
		return core.ActionResult{}, nil, err
	}
	return res, a.responder.SuggestExecuted(action, res), nil
}

// CreateSession allocates a new session for multi-turn use.
func (a *Agent) CreateSession(userID string) string {
	return a.sessions.Create(userID)
}

// GetSession returns a read-only view of a session, or core.ErrNotFound.
func (a *Agent) GetSession(sessionID string) (session.Snapshot, error) {
	snap, ok := a.sessions.Get(sessionID)
	if !ok {
		return session.Snapshot{}, fmt.Errorf("session %s: %w", sessionID, core.ErrNotFound)
	}
	return snap, nil
}

// Actions exposes the action catalog.
func (a *Agent) Actions() []ActionDef {
	return Actions()
}

// Status reports backend readiness and counts.
func (a *Agent) Status(ctx context.Context) SystemStatus {
	return a.executor.Status(ctx)
}
