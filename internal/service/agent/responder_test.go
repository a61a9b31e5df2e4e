package agent

import (
	"strings"
	"testing"

	"github.com/sandevgo/pixbot/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestResponder_AnswerSearchCounts(t *testing.T) {
	r := NewResponder()

	t.Run("zero matches", func(t *testing.T) {
		answer := r.Answer(core.IntentSearch, map[string]any{"total": 0}, "fluffy dogs")
		assert.Contains(t, answer, "fluffy dogs")
		assert.Contains(t, answer, "couldn't find")
		assert.Contains(t, answer, "differently")
	})

	t.Run("single match uses singular", func(t *testing.T) {
		answer := r.Answer(core.IntentSearch, map[string]any{"total": 1}, "fluffy dogs")
		assert.Contains(t, answer, "1 photo ")
		assert.NotContains(t, answer, "photos")
		assert.Contains(t, answer, "fluffy dogs")
	})

	t.Run("many matches uses plural with count", func(t *testing.T) {
		answer := r.Answer(core.IntentSearch, map[string]any{"total": 12}, "fluffy dogs")
		assert.Contains(t, answer, "12 photos")
		assert.Contains(t, answer, "fluffy dogs")
	})
}

func TestResponder_AnswerFixedAcknowledgements(t *testing.T) {
	r := NewResponder()

	tests := []struct {
		intent core.Intent
		want   string
	}{
		{core.IntentDelete, "Delete"},
		{core.IntentUpload, "upload"},
		{core.IntentAnalyze, "coming soon"},
		{core.IntentUnknown, "understand"},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			answer := r.Answer(tt.intent, nil, "whatever")
			assert.True(t, strings.Contains(strings.ToLower(answer), strings.ToLower(tt.want)),
				"answer %q should mention %q", answer, tt.want)
		})
	}
}

func TestResponder_SuggestCutoffs(t *testing.T) {
	r := NewResponder()

	tests := []struct {
		name      string
		total     int
		wantCount int
	}{
		{"zero results", 0, 2},
		{"one result", 1, 3},
		{"boundary at ten", 10, 3},
		{"just above ten", 11, 3},
		{"many results", 42, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Suggest(core.IntentSearch, map[string]any{"total": tt.total})
			assert.Len(t, got, tt.wantCount)
		})
	}

	// The >10 and 1..10 sets are different suggestions.
	few := r.Suggest(core.IntentSearch, map[string]any{"total": 5})
	many := r.Suggest(core.IntentSearch, map[string]any{"total": 11})
	assert.NotEqual(t, few, many)
}

func TestResponder_SuggestNonSearchEmpty(t *testing.T) {
	r := NewResponder()

	for _, intent := range []core.Intent{core.IntentDelete, core.IntentUpload, core.IntentAnalyze, core.IntentUnknown} {
		assert.Empty(t, r.Suggest(intent, map[string]any{"total": 5}), "intent %s", intent)
	}
}

func TestResponder_SuggestExecuted(t *testing.T) {
	r := NewResponder()

	t.Run("delete success acknowledges cleanup", func(t *testing.T) {
		got := r.SuggestExecuted(ActionDelete, core.ActionResult{Success: true, Action: ActionDelete})
		assert.Len(t, got, 1)
		assert.Contains(t, strings.ToLower(got[0]), "clean")
	})

	t.Run("delete failure is silent", func(t *testing.T) {
		got := r.SuggestExecuted(ActionDelete, core.ActionResult{Success: false, Action: ActionDelete})
		assert.Empty(t, got)
	})

	t.Run("update success suggests verification", func(t *testing.T) {
		got := r.SuggestExecuted(ActionUpdate, core.ActionResult{Success: true, Action: ActionUpdate})
		assert.Len(t, got, 1)
		assert.Contains(t, strings.ToLower(got[0]), "search")
	})

	t.Run("search success reuses search suggestions", func(t *testing.T) {
		got := r.SuggestExecuted(ActionSearch, core.ActionResult{
			Success: true,
			Action:  ActionSearch,
			Result:  map[string]any{"total": 0},
		})
		assert.Len(t, got, 2)
	})

	t.Run("not implemented actions have none", func(t *testing.T) {
		got := r.SuggestExecuted(ActionAnalyze, core.ActionResult{Success: false, Action: ActionAnalyze})
		assert.Empty(t, got)
	})
}
