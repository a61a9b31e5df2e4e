// Package search composes the embedder, vector index and image store into the
// retrieval backend the agent dispatches to.
package search

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/pkg/log"
)

type Service struct {
	embedder core.Embedder
	vectors  core.VectorIndex
	images   core.ImageStore
}

func NewService(embedder core.Embedder, vectors core.VectorIndex, images core.ImageStore) *Service {
	return &Service{embedder: embedder, vectors: vectors, images: images}
}

func (s *Service) Search(ctx context.Context, params core.SearchParams) (core.SearchResult, error) {
	if params.QueryText == "" {
		return core.SearchResult{}, fmt.Errorf("%w: query_text is required", core.ErrValidation)
	}
	if params.TopK <= 0 {
		return core.SearchResult{}, fmt.Errorf("%w: top_k must be positive", core.ErrValidation)
	}

	matches, err := s.SearchByText(ctx, params.QueryText, params.TopK, params.ScoreThreshold)
	if err != nil {
		return core.SearchResult{}, err
	}

	if len(params.FilterTags) > 0 {
		matches = filterByTags(matches, params.FilterTags)
	}

	return core.SearchResult{Total: len(matches), Images: matches}, nil
}

func (s *Service) SearchByText(ctx context.Context, queryText string, topK int, scoreThreshold float64) ([]core.Match, error) {
	embedding, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.vectors.Search(ctx, embedding, topK, scoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	s.hydrate(ctx, matches)
	return matches, nil
}

// hydrate fills match fields from the image store. Vector metadata already
// carries a best-effort copy, so a missing row only downgrades the match.
func (s *Service) hydrate(ctx context.Context, matches []core.Match) {
	for i, m := range matches {
		meta, err := s.images.GetImage(ctx, m.ImageID)
		if err != nil {
			if !errors.Is(err, core.ErrNotFound) {
				log.FromCtx(ctx).Warn().Err(err).Str("image_id", m.ImageID).Msg("failed to hydrate match")
			}
			continue
		}
		matches[i].Filename = meta.Filename
		matches[i].Tags = meta.Tags
		matches[i].Description = meta.Description
		matches[i].CreatedAt = meta.CreatedAt
	}
}

func (s *Service) Ready() bool {
	return s.embedder.Ready() && s.vectors.Ready() && s.images.Ready()
}

func filterByTags(matches []core.Match, tags []string) []core.Match {
	filtered := make([]core.Match, 0, len(matches))
	for _, m := range matches {
		keep := true
		for _, want := range tags {
			if !slices.Contains(m.Tags, want) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
