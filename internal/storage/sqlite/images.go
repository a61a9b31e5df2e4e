package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/pkg/log"
)

// ImagesRepo stores image metadata rows in sqlite and the blobs themselves as
// plain files under imagesDir.
type ImagesRepo struct {
	db        *sql.DB
	imagesDir string
}

func NewImagesRepo(db *sql.DB, imagesDir string) (*ImagesRepo, error) {
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &ImagesRepo{db: db, imagesDir: imagesDir}, nil
}

func (r *ImagesRepo) SaveImage(ctx context.Context, meta core.ImageMeta, data []byte) error {
	if meta.ID == "" {
		return fmt.Errorf("%w: image id is required", core.ErrValidation)
	}

	path := meta.Path
	if len(data) > 0 {
		path = filepath.Join(r.imagesDir, meta.ID+filepath.Ext(meta.Filename))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write image file: %w", err)
		}
		meta.SizeBytes = int64(len(data))
	}

	tags, err := json.Marshal(meta.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	createdAt := meta.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO images (id, filename, path, tags, description, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			path = excluded.path,
			tags = excluded.tags,
			description = excluded.description,
			size_bytes = excluded.size_bytes`,
		meta.ID, meta.Filename, path, string(tags), meta.Description, meta.SizeBytes, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save image %s: %w", meta.ID, err)
	}
	return nil
}

func (r *ImagesRepo) GetImage(ctx context.Context, imageID string) (core.ImageMeta, error) {
	var (
		meta core.ImageMeta
		tags string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, filename, path, tags, description, size_bytes, created_at
		FROM images WHERE id = ?`, imageID,
	).Scan(&meta.ID, &meta.Filename, &meta.Path, &tags, &meta.Description, &meta.SizeBytes, &meta.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ImageMeta{}, fmt.Errorf("image %s: %w", imageID, core.ErrNotFound)
	}
	if err != nil {
		return core.ImageMeta{}, fmt.Errorf("failed to get image %s: %w", imageID, err)
	}

	if err := json.Unmarshal([]byte(tags), &meta.Tags); err != nil {
		return core.ImageMeta{}, fmt.Errorf("failed to unmarshal tags for %s: %w", imageID, err)
	}
	return meta, nil
}

// DeleteImage removes the row and the blob file. A missing file is not an
// error, the row is what decides whether the image existed.
func (r *ImagesRepo) DeleteImage(ctx context.Context, imageID string) (bool, error) {
	var path string
	err := r.db.QueryRowContext(ctx, `SELECT path FROM images WHERE id = ?`, imageID).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up image %s: %w", imageID, err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, imageID); err != nil {
		return false, fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}

	if path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.FromCtx(ctx).Warn().Err(err).Str("image_id", imageID).Msg("failed to remove image file")
		}
	}
	return true, nil
}

func (r *ImagesRepo) Stats(ctx context.Context) (core.StorageStats, error) {
	var stats core.StorageStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM images`,
	).Scan(&stats.TotalImages, &stats.TotalBytes)
	if err != nil {
		return core.StorageStats{}, fmt.Errorf("failed to read storage stats: %w", err)
	}
	return stats, nil
}

func (r *ImagesRepo) Ready() bool { return r.db != nil }
