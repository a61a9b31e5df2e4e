package agent

import (
	"testing"

	"github.com/sandevgo/pixbot/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestRuleClassifier_Classify(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantIntent     core.Intent
		wantConfidence float64
	}{
		{
			name:           "english delete keyword",
			query:          "please delete the blurry one",
			wantIntent:     core.IntentDelete,
			wantConfidence: 0.8,
		},
		{
			name:           "chinese delete keyword",
			query:          "删除这张照片",
			wantIntent:     core.IntentDelete,
			wantConfidence: 0.8,
		},
		{
			name:           "case insensitive delete",
			query:          "REMOVE that picture",
			wantIntent:     core.IntentDelete,
			wantConfidence: 0.8,
		},
		{
			name:           "delete wins over upload",
			query:          "delete the photo I uploaded",
			wantIntent:     core.IntentDelete,
			wantConfidence: 0.8,
		},
		{
			name:           "english upload keyword",
			query:          "upload my holiday pictures",
			wantIntent:     core.IntentUpload,
			wantConfidence: 0.8,
		},
		{
			name:           "chinese upload keyword",
			query:          "上传一张新照片",
			wantIntent:     core.IntentUpload,
			wantConfidence: 0.8,
		},
		{
			name:           "upload wins over analyze",
			query:          "add this and analyze it",
			wantIntent:     core.IntentUpload,
			wantConfidence: 0.8,
		},
		{
			name:           "english analyze keyword",
			query:          "analyze this picture for me",
			wantIntent:     core.IntentAnalyze,
			wantConfidence: 0.7,
		},
		{
			name:           "chinese analyze keyword",
			query:          "这是什么花",
			wantIntent:     core.IntentAnalyze,
			wantConfidence: 0.7,
		},
		{
			name:           "plain description falls back to search",
			query:          "sunset at the beach",
			wantIntent:     core.IntentSearch,
			wantConfidence: 0.9,
		},
		{
			name:           "chinese description falls back to search",
			query:          "我昨天拍的小狗照片",
			wantIntent:     core.IntentSearch,
			wantConfidence: 0.9,
		},
		{
			name:           "empty query falls back to search",
			query:          "",
			wantIntent:     core.IntentSearch,
			wantConfidence: 0.9,
		},
	}

	c := NewRuleClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.query)
			assert.Equal(t, tt.wantIntent, got.Intent)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.NotNil(t, got.Entities)
			assert.Empty(t, got.Entities)
		})
	}
}
