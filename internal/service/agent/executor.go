package agent

import (
	"context"
	"fmt"

	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/pkg/log"
)

// Executor routes resolved intents and direct action calls to the backend
// collaborators. It never retries: transient backend failures propagate to
// the caller, and retry policy lives with the collaborators themselves.
type Executor struct {
	search   core.SearchBackend
	images   core.ImageStore
	vectors  core.VectorIndex
	embedder core.Embedder
}

func NewExecutor(
	search core.SearchBackend,
	images core.ImageStore,
	vectors core.VectorIndex,
	embedder core.Embedder,
) *Executor {
	return &Executor{
		search:   search,
		images:   images,
		vectors:  vectors,
		embedder: embedder,
	}
}

// DispatchIntent runs the chat-path action for a classified intent. Only
// search reaches a backend here: destructive actions need an explicit image
// id that free text cannot be trusted to supply, so chat redirects them to
// the direct execute surface instead of guessing.
func (e *Executor) DispatchIntent(ctx context.Context, intent core.Intent, optimizedQuery string, topK int, scoreThreshold float64) (map[string]any, error) {
	switch intent {
	case core.IntentSearch:
		if !e.search.Ready() {
			return nil, fmt.Errorf("search backend: %w", core.ErrNotReady)
		}

		matches, err := e.search.SearchByText(ctx, optimizedQuery, topK, scoreThreshold)
		if err != nil {
			return nil, fmt.Errorf("search by text: %w", err)
		}

		return map[string]any{
			"total":  len(matches),
			"images": matches,
		}, nil

	case core.IntentDelete:
		return map[string]any{
			"message": "Deleting needs an explicit image id, call the delete action on the execute endpoint.",
		}, nil

	case core.IntentUpload:
		return map[string]any{
			"message": "Uploads go through the storage upload endpoint.",
		}, nil

	case core.IntentAnalyze:
		return map[string]any{
			"message": "Image analysis is not available yet.",
		}, nil

	default:
		return map[string]any{
			"message": "Sorry, I don't understand what you're asking for.",
		}, nil
	}
}

// Execute runs one catalog action by name with a raw parameter mapping, as
// decoded from JSON. Not-implemented actions return a structured failure,
// not an error: they are permanent states of the current feature set.
func (e *Executor) Execute(ctx context.Context, action string, params map[string]any) (core.ActionResult, error) {
	switch action {
	case ActionSearch:
		return e.executeSearch(ctx, params)
	case ActionUpload:
		return core.ActionResult{
			Success: false,
			Action:  ActionUpload,
			Message: "URL import is not implemented yet, use the storage upload endpoint.",
		}, nil
	case ActionDelete:
		return e.executeDelete(ctx, params)
	case ActionUpdate:
		return e.executeUpdate(ctx, params)
	case ActionAnalyze:
		return core.ActionResult{
			Success: false,
			Action:  ActionAnalyze,
			Message: "Image analysis is not implemented yet.",
		}, nil
	default:
		return core.ActionResult{}, fmt.Errorf("%w: %q", core.ErrUnknownAction, action)
	}
}

func (e *Executor) executeSearch(ctx context.Context, params map[string]any) (core.ActionResult, error) {
	if !e.search.Ready() {
		return core.ActionResult{}, fmt.Errorf("search backend: %w", core.ErrNotReady)
	}

	topK := intParam(params, "top_k", 10)
	result, err := e.search.Search(ctx, core.SearchParams{
		QueryText:      stringParam(params, "query_text"),
		QueryImageID:   stringParam(params, "query_image_id"),
		QueryImageURL:  stringParam(params, "query_image_url"),
		TopK:           topK,
		FilterTags:     stringsParam(params, "filter_tags"),
		ScoreThreshold: floatParam(params, "score_threshold", 0),
	})
	if err != nil {
		return core.ActionResult{}, fmt.Errorf("search: %w", err)
	}

	return core.ActionResult{
		Success: true,
		Action:  ActionSearch,
		Result: map[string]any{
			"total":  result.Total,
			"images": result.Images,
		},
		Message: fmt.Sprintf("Found %d matching photos", result.Total),
	}, nil
}

// executeDelete removes the stored image first, then best-effort removes its
// vector entry. A vector failure is reported, not rolled back: overall
// success reflects file deletion only.
func (e *Executor) executeDelete(ctx context.Context, params map[string]any) (core.ActionResult, error) {
	imageID := stringParam(params, "image_id")
	if imageID == "" {
		return core.ActionResult{}, fmt.Errorf("image_id is required: %w", core.ErrValidation)
	}

	fileDeleted, err := e.images.DeleteImage(ctx, imageID)
	if err != nil {
		return core.ActionResult{}, fmt.Errorf("delete image %s: %w", imageID, err)
	}

	vectorDeleted := false
	if e.vectors.Ready() {
		vectorDeleted, err = e.vectors.Delete(ctx, imageID)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("image_id", imageID).Msg("vector delete failed, file already removed")
			vectorDeleted = false
		}
	}

	message := "Photo deleted"
	if !fileDeleted {
		message = "Photo not found"
	}

	return core.ActionResult{
		Success: fileDeleted,
		Action:  ActionDelete,
		Result: map[string]any{
			"file_deleted":   fileDeleted,
			"vector_deleted": vectorDeleted,
		},
		Message: message,
	}, nil
}

func (e *Executor) executeUpdate(ctx context.Context, params map[string]any) (core.ActionResult, error) {
	imageID := stringParam(params, "image_id")
	if imageID == "" {
		return core.ActionResult{}, fmt.Errorf("image_id is required: %w", core.ErrValidation)
	}

	fields := make(map[string]any)
	if tags, ok := params["tags"]; ok {
		fields["tags"] = tags
	}
	if description, ok := params["description"]; ok {
		fields["description"] = description
	}

	if len(fields) == 0 {
		return core.ActionResult{
			Success: false,
			Action:  ActionUpdate,
			Message: "Nothing to update: provide tags and/or description.",
		}, nil
	}

	updated, err := e.vectors.UpdateMetadata(ctx, imageID, fields)
	if err != nil {
		return core.ActionResult{}, fmt.Errorf("update metadata %s: %w", imageID, err)
	}

	message := "Photo updated"
	if !updated {
		message = "Update failed"
	}

	return core.ActionResult{
		Success: updated,
		Action:  ActionUpdate,
		Message: message,
	}, nil
}

// SystemStatus reports readiness of every backend collaborator plus counts,
// so callers know what the system can do right now.
type SystemStatus struct {
	EmbeddingService bool `json:"embedding_service"`
	SearchService    bool `json:"search_service"`
	StorageService   bool `json:"storage_service"`
	VectorService    bool `json:"vector_service"`
	TotalImages      int  `json:"total_images"`
	TotalVectors     int  `json:"total_vectors"`
}

func (e *Executor) Status(ctx context.Context) SystemStatus {
	status := SystemStatus{
		EmbeddingService: e.embedder.Ready(),
		SearchService:    e.search.Ready(),
		StorageService:   e.images.Ready(),
		VectorService:    e.vectors.Ready(),
	}

	logger := log.FromCtx(ctx)

	if status.StorageService {
		stats, err := e.images.Stats(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to read storage stats")
		} else {
			status.TotalImages = stats.TotalImages
		}
	}

	if status.VectorService {
		count, err := e.vectors.Count(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to count vectors")
		} else {
			status.TotalVectors = count
		}
	}

	return status
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		// JSON numbers decode as float64
		return int(v)
	default:
		return fallback
	}
}

func floatParam(params map[string]any, key string, fallback float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func stringsParam(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
