package agent

import (
	"fmt"

	"github.com/sandevgo/pixbot/internal/core"
)

// Responder turns an action outcome into a user-facing answer plus follow-up
// suggestions. Stateless; the reserved hook for LLM-generated replies.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// Answer is count-sensitive for search results and a fixed acknowledgement
// for everything else.
func (r *Responder) Answer(intent core.Intent, results map[string]any, query string) string {
	switch intent {
	case core.IntentSearch:
		total := resultTotal(results)
		switch {
		case total == 0:
			return fmt.Sprintf("Sorry, I couldn't find any photos matching %q. Try describing them differently.", query)
		case total == 1:
			return fmt.Sprintf("Found 1 photo matching %q.", query)
		default:
			return fmt.Sprintf("Found %d photos matching %q.", total, query)
		}
	case core.IntentDelete:
		return "Delete completed."
	case core.IntentUpload:
		return "Image uploaded successfully."
	case core.IntentAnalyze:
		return "Image analysis is coming soon."
	default:
		return "Sorry, I didn't quite understand that."
	}
}

// Suggest proposes follow-ups for a chat turn. Pure function of intent and
// results; the 0 and 10 thresholds are exact cutoffs.
func (r *Responder) Suggest(intent core.Intent, results map[string]any) []string {
	if intent != core.IntentSearch {
		return []string{}
	}

	total := resultTotal(results)
	switch {
	case total == 0:
		return []string{
			"Try a different description",
			"Check whether a tag filter would help",
		}
	case total > 10:
		return []string{
			"Add more descriptive detail to narrow it down",
			"Filter by tag",
			"View similar images",
		}
	default:
		return []string{
			"Find similar images",
			"Ask when these were taken",
			"Tag these images",
		}
	}
}

// SuggestExecuted proposes follow-ups after a direct action execution.
func (r *Responder) SuggestExecuted(action string, res core.ActionResult) []string {
	switch action {
	case "search":
		if res.Success {
			return r.Suggest(core.IntentSearch, res.Result)
		}
	case "delete":
		if res.Success {
			return []string{"Delete completed, the related index entries were cleaned up"}
		}
	case "update":
		if res.Success {
			return []string{"Search again to verify the update"}
		}
	}
	return []string{}
}

func resultTotal(results map[string]any) int {
	if results == nil {
		return 0
	}
	switch v := results["total"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
