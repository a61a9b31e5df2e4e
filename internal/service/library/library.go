// Package library ingests images into the album: one call stores the blob,
// embeds its text description and registers the vector, so every upload
// surface (HTTP, CLI) shares the same path.
package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/pkg/log"
)

type Library struct {
	images   core.ImageStore
	vectors  core.VectorIndex
	embedder core.Embedder
}

func New(images core.ImageStore, vectors core.VectorIndex, embedder core.Embedder) *Library {
	return &Library{images: images, vectors: vectors, embedder: embedder}
}

type IngestRequest struct {
	Filename    string
	Data        []byte
	Tags        []string
	Description string
}

// Ingest stores the image and indexes it. The embedding text is built from
// the description, tags and filename, whichever are present.
func (l *Library) Ingest(ctx context.Context, req IngestRequest) (core.ImageMeta, error) {
	if req.Filename == "" {
		return core.ImageMeta{}, fmt.Errorf("filename is required: %w", core.ErrValidation)
	}
	if len(req.Data) == 0 {
		return core.ImageMeta{}, fmt.Errorf("image data is empty: %w", core.ErrValidation)
	}

	meta := core.ImageMeta{
		ID:          uuid.NewString(),
		Filename:    req.Filename,
		Tags:        req.Tags,
		Description: req.Description,
		SizeBytes:   int64(len(req.Data)),
		CreatedAt:   time.Now().UTC(),
	}

	if err := l.images.SaveImage(ctx, meta, req.Data); err != nil {
		return core.ImageMeta{}, fmt.Errorf("save image: %w", err)
	}

	embedding, err := l.embedder.Embed(ctx, embeddingText(meta))
	if err != nil {
		return core.ImageMeta{}, fmt.Errorf("embed image text: %w", err)
	}

	tags := make([]any, 0, len(meta.Tags))
	for _, t := range meta.Tags {
		tags = append(tags, t)
	}
	err = l.vectors.Upsert(ctx, meta.ID, embedding, map[string]any{
		"filename":    meta.Filename,
		"description": meta.Description,
		"tags":        tags,
	})
	if err != nil {
		// The blob is saved; the image just won't rank until re-indexed.
		log.FromCtx(ctx).Warn().Err(err).Str("image_id", meta.ID).Msg("vector upsert failed after save")
	}

	return meta, nil
}

func embeddingText(meta core.ImageMeta) string {
	parts := make([]string, 0, 3)
	if meta.Description != "" {
		parts = append(parts, meta.Description)
	}
	if len(meta.Tags) > 0 {
		parts = append(parts, strings.Join(meta.Tags, " "))
	}
	if len(parts) == 0 {
		parts = append(parts, meta.Filename)
	}
	return strings.Join(parts, " ")
}
