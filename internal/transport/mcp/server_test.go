package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/pixbot/internal/config"
	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/internal/service/agent"
	"github.com/sandevgo/pixbot/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearch struct {
	matches []core.Match
}

func (s *stubSearch) Search(ctx context.Context, params core.SearchParams) (core.SearchResult, error) {
	return core.SearchResult{Total: len(s.matches), Images: s.matches}, nil
}

func (s *stubSearch) SearchByText(ctx context.Context, queryText string, topK int, scoreThreshold float64) ([]core.Match, error) {
	return s.matches, nil
}

func (s *stubSearch) Ready() bool { return true }

type stubImages struct{}

func (s *stubImages) SaveImage(ctx context.Context, meta core.ImageMeta, data []byte) error {
	return nil
}

func (s *stubImages) GetImage(ctx context.Context, imageID string) (core.ImageMeta, error) {
	return core.ImageMeta{}, core.ErrNotFound
}

func (s *stubImages) DeleteImage(ctx context.Context, imageID string) (bool, error) {
	return true, nil
}

func (s *stubImages) Stats(ctx context.Context) (core.StorageStats, error) {
	return core.StorageStats{}, nil
}

func (s *stubImages) Ready() bool { return true }

type stubVectors struct{}

func (s *stubVectors) Upsert(ctx context.Context, imageID string, embedding []float32, metadata map[string]any) error {
	return nil
}

func (s *stubVectors) Delete(ctx context.Context, imageID string) (bool, error) { return true, nil }

func (s *stubVectors) UpdateMetadata(ctx context.Context, imageID string, fields map[string]any) (bool, error) {
	return true, nil
}

func (s *stubVectors) Count(ctx context.Context) (int, error) { return 0, nil }

func (s *stubVectors) Search(ctx context.Context, embedding []float32, topK int, scoreThreshold float64) ([]core.Match, error) {
	return nil, nil
}

func (s *stubVectors) Ready() bool { return true }

type stubEmbedder struct{}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (s *stubEmbedder) Ready() bool { return true }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := session.NewStore(time.Hour, 100)
	a := agent.NewAgent(
		&config.AppConfig{DefaultTopK: 10},
		store,
		agent.NewRuleClassifier(),
		agent.NewPassthroughOptimizer(store),
		agent.NewExecutor(
			&stubSearch{matches: []core.Match{{ImageID: "img-1", Score: 0.8}}},
			&stubImages{},
			&stubVectors{},
			&stubEmbedder{},
		),
		agent.NewResponder(),
	)
	return NewServer(a)
}

func callRequest(args map[string]any) mcpproto.CallToolRequest {
	req := mcpproto.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, res *mcpproto.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := mcpproto.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestServer_ChatTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleChat(context.Background(), callRequest(map[string]any{"query": "dogs"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var resp struct {
		SessionID string `json:"session_id"`
		Intent    string `json:"intent"`
		Answer    string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent(t, res)), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "search", resp.Intent)
	assert.NotEmpty(t, resp.Answer)
}

func TestServer_ChatToolEmptyQuery(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleChat(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_ActionTool(t *testing.T) {
	s := newTestServer(t)
	handler := s.actionHandler("delete")

	res, err := handler(context.Background(), callRequest(map[string]any{"image_id": "img-1"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var resp struct {
		Result      core.ActionResult `json:"result"`
		Suggestions []string          `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent(t, res)), &resp))
	assert.True(t, resp.Result.Success)
	assert.Equal(t, "delete", resp.Result.Action)
	assert.Len(t, resp.Suggestions, 1)
}

func TestServer_ActionToolValidation(t *testing.T) {
	s := newTestServer(t)
	handler := s.actionHandler("delete")

	res, err := handler(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
