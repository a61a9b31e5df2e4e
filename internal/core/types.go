package core

import "time"

const (
	PixName          = "PixBot"
	PixUserAgent     = "PixBot-Agent/0.1"
	PixRepositoryURL = "https://github.com/sandevgo/pixbot"
	PixVersion       = "0.1.0"
)

// Intent is the discrete category a free-text query is classified into.
type Intent string

const (
	IntentSearch  Intent = "search"
	IntentUpload  Intent = "upload"
	IntentDelete  Intent = "delete"
	IntentUpdate  Intent = "update"
	IntentAnalyze Intent = "analyze"
	IntentUnknown Intent = "unknown"
)

// IntentResult is the outcome of classifying one query. Entities is reserved
// for structured extraction (dates, tag names, image ids) and is empty today.
type IntentResult struct {
	Intent     Intent            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities"`
}

// ActionResult is the uniform outcome of a dispatched backend action.
type ActionResult struct {
	Success bool           `json:"success"`
	Action  string         `json:"action"`
	Result  map[string]any `json:"result,omitempty"`
	Message string         `json:"message"`
}

// Match is one ranked search hit, hydrated with image metadata.
type Match struct {
	ImageID     string    `json:"image_id"`
	Score       float64   `json:"score"`
	Filename    string    `json:"filename,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchParams covers the full multi-modal search contract. Only QueryText is
// served today; image-based queries are reserved.
type SearchParams struct {
	QueryText      string
	QueryImageID   string
	QueryImageURL  string
	TopK           int
	FilterTags     []string
	ScoreThreshold float64
}

type SearchResult struct {
	Total  int     `json:"total"`
	Images []Match `json:"images"`
}

type StorageStats struct {
	TotalImages int   `json:"total_images"`
	TotalBytes  int64 `json:"total_bytes"`
}

// ImageMeta is the stored record for one album image.
type ImageMeta struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	Tags        []string  `json:"tags,omitempty"`
	Description string    `json:"description,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}
