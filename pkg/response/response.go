// Package response provides the JSON envelopes the wasm bindings hand
// back to the JS client, plus slim document views that only carry the
// fields the sidebar actually renders.
package response

import (
	"encoding/json"

	"github.com/gravewriter/gograve/internal/store"
	"github.com/gravewriter/gograve/pkg/stats"
)

// Envelope is the uniform result shape for every binding.
type Envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// OK wraps a successful result. A value that cannot marshal is a
// programming error and comes back as a failed envelope instead.
func OK(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return Err(err)
	}
	out, _ := json.Marshal(Envelope{OK: true, Data: data})
	return string(out)
}

// Err wraps a failure.
func Err(err error) string {
	out, _ := json.Marshal(Envelope{OK: false, Error: err.Error()})
	return string(out)
}

// SlimDocument is the sidebar list view: metadata without content or
// snapshot bodies, so listing a large library stays cheap to cross the
// wasm boundary.
type SlimDocument struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	FolderID      *string  `json:"folderId"`
	Tags          []string `json:"tags"`
	WordGoal      *int     `json:"wordGoal"`
	WordCount     int      `json:"wordCount"`
	SnapshotCount int      `json:"snapshotCount"`
	UpdatedAt     int64    `json:"updatedAt"`
}

// Slim converts a full document to its list view.
func Slim(d store.Document) SlimDocument {
	return SlimDocument{
		ID:            d.ID,
		Title:         d.Title,
		FolderID:      d.FolderID,
		Tags:          d.Tags,
		WordGoal:      d.WordGoal,
		WordCount:     stats.WordCount(d.Content),
		SnapshotCount: len(d.Snapshots),
		UpdatedAt:     d.UpdatedAt,
	}
}

// SlimAll converts a document list.
func SlimAll(docs []store.Document) []SlimDocument {
	out := make([]SlimDocument, len(docs))
	for i, d := range docs {
		out[i] = Slim(d)
	}
	return out
}
