package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pixbot/internal/config"
	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/internal/service/agent"
	"github.com/sandevgo/pixbot/internal/service/command"
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
	return false, nil
}

func (s *stubImages) Stats(ctx context.Context) (core.StorageStats, error) {
	return core.StorageStats{}, nil
}

func (s *stubImages) Ready() bool { return true }

type stubVectors struct{}

func (s *stubVectors) Upsert(ctx context.Context, imageID string, embedding []float32, metadata map[string]any) error {
	return nil
}

func (s *stubVectors) Delete(ctx context.Context, imageID string) (bool, error) { return false, nil }

func (s *stubVectors) UpdateMetadata(ctx context.Context, imageID string, fields map[string]any) (bool, error) {
	return false, nil
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

func newTestModel(t *testing.T) chatModel {
	t.Helper()

	store := session.NewStore(time.Hour, 100)
	a := agent.NewAgent(
		&config.AppConfig{DefaultTopK: 10},
		store,
		agent.NewRuleClassifier(),
		agent.NewPassthroughOptimizer(store),
		agent.NewExecutor(
			&stubSearch{matches: []core.Match{{ImageID: "img-1", Filename: "dog.jpg", Score: 0.9}}},
			&stubImages{},
			&stubVectors{},
			&stubEmbedder{},
		),
		agent.NewResponder(),
	)
	router := command.New(command.NewDefaultCommands(a))
	return newChatModel(context.Background(), a, router)
}

func pressEnter(m chatModel, line string) (chatModel, tea.Cmd) {
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(chatModel), cmd
}

func TestChatModel_TurnRoundTrip(t *testing.T) {
	m, cmd := pressEnter(newTestModel(t), "photos of my dog")
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)

	msg := cmd()
	reply, ok := msg.(replyMsg)
	require.True(t, ok)
	require.NoError(t, reply.err)
	assert.NotEmpty(t, reply.sessionID)
	assert.Contains(t, reply.text, "dog.jpg")

	updated, _ := m.Update(reply)
	m = updated.(chatModel)
	assert.False(t, m.waiting)
	assert.Equal(t, reply.sessionID, m.sessionID)
	assert.Contains(t, m.View(), "dog.jpg")
}

func TestChatModel_SlashCommand(t *testing.T) {
	m, cmd := pressEnter(newTestModel(t), "/status")
	assert.Nil(t, cmd)
	assert.False(t, m.waiting)
	assert.Contains(t, strings.Join(m.lines, "\n"), "System status")
}

func TestChatModel_NewSession(t *testing.T) {
	m, cmd := pressEnter(newTestModel(t), "/new")
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.sessionID)
	assert.Contains(t, strings.Join(m.lines, "\n"), "fresh conversation")
}

func TestChatModel_EmptyInputIgnored(t *testing.T) {
	before := newTestModel(t)
	m, cmd := pressEnter(before, "   ")
	assert.Nil(t, cmd)
	assert.Len(t, m.lines, len(before.lines))
}

func TestChatModel_Quit(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, updated.(chatModel).quitting)
}

func TestRenderResponse_Suggestions(t *testing.T) {
	out := renderResponse(agent.ChatResponse{
		Answer:      "Found 1 photo matching \"dog\".",
		Results:     map[string]any{"images": []core.Match{{ImageID: "img-1", Score: 0.5}}},
		Suggestions: []string{"Try another query"},
	})
	assert.Contains(t, out, "img-1")
	assert.Contains(t, out, "Try another query")
}
