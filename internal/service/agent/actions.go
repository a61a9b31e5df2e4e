package agent

import "encoding/json"

// Action names in the catalog.
const (
	ActionSearch  = "search"
	ActionUpload  = "upload"
	ActionDelete  = "delete"
	ActionUpdate  = "update"
	ActionAnalyze = "analyze"
)

const searchSchema = `
{
  "type": "object",
  "properties": {
    "query_text": { "type": "string", "description": "Free-text description of the photos to find" },
    "query_image_id": { "type": "string", "description": "Find photos similar to this stored image (reserved)" },
    "query_image_url": { "type": "string", "description": "Find photos similar to this image URL (reserved)" },
    "top_k": { "type": "integer", "description": "Maximum number of results", "default": 10 },
    "score_threshold": { "type": "number", "description": "Minimum similarity score in [0,1]" },
    "filter_tags": { "type": "array", "items": { "type": "string" }, "description": "Only return photos carrying all of these tags" }
  }
}
`

const uploadSchema = `
{
  "type": "object",
  "properties": {
    "image_url": { "type": "string", "description": "URL of the image to import" },
    "tags": { "type": "array", "items": { "type": "string" }, "description": "Tags to attach" },
    "description": { "type": "string", "description": "Free-text description" }
  },
  "required": ["image_url"]
}
`

const deleteSchema = `
{
  "type": "object",
  "properties": {
    "image_id": { "type": "string", "description": "Id of the photo to delete" }
  },
  "required": ["image_id"]
}
`

const updateSchema = `
{
  "type": "object",
  "properties": {
    "image_id": { "type": "string", "description": "Id of the photo to update" },
    "tags": { "type": "array", "items": { "type": "string" }, "description": "Replacement tag list" },
    "description": { "type": "string", "description": "Replacement description" }
  },
  "required": ["image_id"]
}
`

const analyzeSchema = `
{
  "type": "object",
  "properties": {
    "image_id": { "type": "string", "description": "Id of the photo to analyze" }
  },
  "required": ["image_id"]
}
`

// ActionDef describes one executable action for callers that discover the
// surface at runtime (HTTP catalog, MCP tool listing).
type ActionDef struct {
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Actions returns the full catalog. Upload and analyze are in the catalog
// even though they always report not-implemented: the capability surface is
// documented ahead of the implementation.
func Actions() []ActionDef {
	return []ActionDef{
		{
			Action:      ActionSearch,
			Description: "Search photos by text description; image-similarity and mixed queries are reserved",
			Parameters:  json.RawMessage(searchSchema),
		},
		{
			Action:      ActionUpload,
			Description: "Import a new photo into the album (not implemented, use the storage upload endpoint)",
			Parameters:  json.RawMessage(uploadSchema),
		},
		{
			Action:      ActionDelete,
			Description: "Delete a photo and its search index entry",
			Parameters:  json.RawMessage(deleteSchema),
		},
		{
			Action:      ActionUpdate,
			Description: "Update a photo's tags and/or description",
			Parameters:  json.RawMessage(updateSchema),
		},
		{
			Action:      ActionAnalyze,
			Description: "Analyze photo content (not implemented)",
			Parameters:  json.RawMessage(analyzeSchema),
		},
	}
}
