package core

import "context"

// SearchBackend retrieves ranked matches for a query. Ready reports whether
// the backend has finished initialization; callers must not search before.
type SearchBackend interface {
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	SearchByText(ctx context.Context, queryText string, topK int, scoreThreshold float64) ([]Match, error)
	Ready() bool
}

// ImageStore owns image blobs and their metadata records.
type ImageStore interface {
	SaveImage(ctx context.Context, meta ImageMeta, data []byte) error
	GetImage(ctx context.Context, imageID string) (ImageMeta, error)
	// DeleteImage reports false (without error) when the image does not exist.
	DeleteImage(ctx context.Context, imageID string) (bool, error)
	Stats(ctx context.Context) (StorageStats, error)
	Ready() bool
}

// VectorIndex holds one embedding per image plus searchable metadata.
type VectorIndex interface {
	Upsert(ctx context.Context, imageID string, embedding []float32, metadata map[string]any) error
	Delete(ctx context.Context, imageID string) (bool, error)
	UpdateMetadata(ctx context.Context, imageID string, fields map[string]any) (bool, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, embedding []float32, topK int, scoreThreshold float64) ([]Match, error)
	Ready() bool
}

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Ready() bool
}
