package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/pkg/log"
)

// VectorsRepo keeps one embedding per image as a float32 BLOB plus a JSON
// metadata document. Ranking is brute-force cosine in Go, which is fine for
// a personal album sized collection.
type VectorsRepo struct {
	db *sql.DB
}

func NewVectorsRepo(db *sql.DB) *VectorsRepo {
	return &VectorsRepo{db: db}
}

func (r *VectorsRepo) Upsert(ctx context.Context, imageID string, embedding []float32, metadata map[string]any) error {
	if imageID == "" {
		return fmt.Errorf("%w: image id is required", core.ErrValidation)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("%w: embedding is empty", core.ErrValidation)
	}

	blob, err := serializeVector(embedding)
	if err != nil {
		return err
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal vector metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO vectors (image_id, embedding, metadata, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(image_id) DO UPDATE SET
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		imageID, blob, string(meta), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vector %s: %w", imageID, err)
	}
	return nil
}

func (r *VectorsRepo) Delete(ctx context.Context, imageID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vectors WHERE image_id = ?`, imageID)
	if err != nil {
		return false, fmt.Errorf("failed to delete vector %s: %w", imageID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdateMetadata merges fields into the stored metadata document. Returns
// false when no vector exists for the image.
func (r *VectorsRepo) UpdateMetadata(ctx context.Context, imageID string, fields map[string]any) (bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT metadata FROM vectors WHERE image_id = ?`, imageID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read metadata for %s: %w", imageID, err)
	}

	metadata := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("image_id", imageID).Msg("resetting corrupt vector metadata")
		metadata = map[string]any{}
	}
	for k, v := range fields {
		metadata[k] = v
	}

	merged, err := json.Marshal(metadata)
	if err != nil {
		return false, fmt.Errorf("failed to marshal metadata for %s: %w", imageID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE vectors SET metadata = ?, updated_at = ? WHERE image_id = ?`,
		string(merged), time.Now().UTC(), imageID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update metadata for %s: %w", imageID, err)
	}
	return true, nil
}

func (r *VectorsRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count vectors: %w", err)
	}
	return count, nil
}

func (r *VectorsRepo) Search(ctx context.Context, embedding []float32, topK int, scoreThreshold float64) ([]core.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", core.ErrValidation)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT image_id, embedding, metadata FROM vectors`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan vectors: %w", err)
	}
	defer rows.Close()

	var matches []core.Match
	for rows.Next() {
		var (
			imageID string
			blob    []byte
			raw     string
		)
		if err := rows.Scan(&imageID, &blob, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan vector row: %w", err)
		}

		vec, err := deserializeVector(blob)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("image_id", imageID).Msg("skipping unreadable vector")
			continue
		}

		score := cosineSimilarity(embedding, vec)
		if score < scoreThreshold {
			continue
		}

		match := core.Match{ImageID: imageID, Score: score}
		applyMetadata(&match, raw)
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vectors: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (r *VectorsRepo) Ready() bool { return r.db != nil }

func applyMetadata(match *core.Match, raw string) {
	var metadata map[string]any
	if json.Unmarshal([]byte(raw), &metadata) != nil {
		return
	}
	if v, ok := metadata["filename"].(string); ok {
		match.Filename = v
	}
	if v, ok := metadata["description"].(string); ok {
		match.Description = v
	}
	if vals, ok := metadata["tags"].([]any); ok {
		for _, t := range vals {
			if s, ok := t.(string); ok {
				match.Tags = append(match.Tags, s)
			}
		}
	}
}
