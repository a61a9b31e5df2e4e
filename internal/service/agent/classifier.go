package agent

import (
	"strings"

	"github.com/sandevgo/pixbot/internal/core"
)

// Classifier labels a raw query with an intent. Implementations must be safe
// for concurrent use. RuleClassifier is the reference implementation; an
// LLM-backed one can replace it without touching the executor or responder.
type Classifier interface {
	Classify(query string) core.IntentResult
}

// Keyword sets checked in priority order: specific intents override the
// search fallback. Matching is case-insensitive substring, both English and
// Chinese terms.
var (
	deleteKeywords  = []string{"删除", "删掉", "remove", "delete"}
	uploadKeywords  = []string{"上传", "添加", "upload", "add"}
	analyzeKeywords = []string{"分析", "识别", "这是什么", "analyze"}
)

type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

func (c *RuleClassifier) Classify(query string) core.IntentResult {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, deleteKeywords):
		return intentResult(core.IntentDelete, 0.8)
	case containsAny(q, uploadKeywords):
		return intentResult(core.IntentUpload, 0.8)
	case containsAny(q, analyzeKeywords):
		return intentResult(core.IntentAnalyze, 0.7)
	default:
		// Everything unclassified counts as a search. Deliberately
		// permissive: search is the common case and harmless to guess, so
		// IntentUnknown is never emitted here.
		return intentResult(core.IntentSearch, 0.9)
	}
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func intentResult(intent core.Intent, confidence float64) core.IntentResult {
	return core.IntentResult{
		Intent:     intent,
		Confidence: confidence,
		Entities:   map[string]string{},
	}
}
