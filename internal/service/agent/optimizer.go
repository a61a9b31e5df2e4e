package agent

import (
	"github.com/sandevgo/pixbot/internal/service/session"
)

// Optimizer rewrites a raw query into sharper search semantics. The
// passthrough implementation returns the input unchanged; the interface is
// the hook for future rewriting (relative dates, synonym expansion, an LLM).
// Callers must tolerate optimized == original, which is the common case.
type Optimizer interface {
	Optimize(query, sessionID string) string
}

type PassthroughOptimizer struct {
	sessions *session.Store
}

func NewPassthroughOptimizer(sessions *session.Store) *PassthroughOptimizer {
	return &PassthroughOptimizer{sessions: sessions}
}

// Optimize records the transformation into session history when the session
// resolves. An unknown or empty session id is a silent no-op.
func (o *PassthroughOptimizer) Optimize(query, sessionID string) string {
	optimized := query

	if sessionID != "" {
		o.sessions.AppendEvent(sessionID, session.Event{
			Type: session.EventQueryOptimize,
			Fields: map[string]any{
				"original":  query,
				"optimized": optimized,
			},
		})
	}

	return optimized
}
