// Package store provides the document state layer for GoGrave.
// This is the unified data layer behind the GraveWriter editor: the
// in-memory library of documents plus settings, with every mutation
// persisted synchronously through the storage adapter.
package store

import (
	"bytes"
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Document represents a single manuscript in the writer's library.
// JSON tags mirror the shapes the JS frontend reads and persists.
type Document struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	FolderID  *string    `json:"folderId"`
	Tags      []string   `json:"tags"`
	WordGoal  *int       `json:"wordGoal"`
	Synopsis  string     `json:"synopsis"`
	Snapshots []Snapshot `json:"snapshots"`
	CreatedAt int64      `json:"createdAt"`
	UpdatedAt int64      `json:"updatedAt"`
}

// Snapshot is a frozen copy of a document's content at capture time.
// WordCount is computed once at capture and never recomputed, so it
// stays historically accurate even if the counting algorithm changes.
type Snapshot struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
	Timestamp int64  `json:"timestamp"`
}

// Settings is the single global editor configuration, persisted as one unit.
type Settings struct {
	FontFamily  string  `json:"fontFamily"`
	FontSize    int     `json:"fontSize"`
	LineHeight  float64 `json:"lineHeight"`
	EditorWidth int     `json:"editorWidth"`
	Theme       string  `json:"theme"`
}

// Themes supported by the editor.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// FontFamilies is the fixed set of fonts the editor ships.
var FontFamilies = []string{
	"Crimson Text",
	"EB Garamond",
	"Special Elite",
	"Courier Prime",
	"Georgia",
}

// DefaultSettings returns the editor defaults for a fresh session.
func DefaultSettings() Settings {
	return Settings{
		FontFamily:  "Crimson Text",
		FontSize:    18,
		LineHeight:  1.8,
		EditorWidth: 65,
		Theme:       ThemeDark,
	}
}

// Validate checks the settings ranges the UI input boundary promises.
func (s Settings) Validate() error {
	fonts := make([]interface{}, len(FontFamilies))
	for i, f := range FontFamilies {
		fonts[i] = f
	}
	return validation.ValidateStruct(&s,
		validation.Field(&s.FontFamily, validation.Required, validation.In(fonts...)),
		validation.Field(&s.FontSize, validation.Required, validation.Min(12), validation.Max(24)),
		validation.Field(&s.LineHeight, validation.Required, validation.Min(1.2), validation.Max(2.0)),
		validation.Field(&s.EditorWidth, validation.Required, validation.Min(60), validation.Max(80)),
		validation.Field(&s.Theme, validation.Required, validation.In(ThemeDark, ThemeLight)),
	)
}

// SaveStatus is the save indicator state shown next to the editor.
type SaveStatus string

const (
	StatusSaved  SaveStatus = "saved"
	StatusSaving SaveStatus = "saving"
	StatusError  SaveStatus = "error"
)

// OptionalString tracks presence and value for merge-patch semantics.
// This enables tri-state handling that a plain *string cannot express:
//   - Present=false: field absent from the patch (don't change)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value=&"text": field has a value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// OptionalInt is OptionalString for nullable integer fields.
type OptionalInt struct {
	Present bool
	Value   *int
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	o.Value = &n
	return nil
}

// DocumentPatch carries a partial document update.
// Nil / absent fields are left unchanged.
type DocumentPatch struct {
	Title    *string        `json:"title"`
	Content  *string        `json:"content"`
	FolderID OptionalString `json:"folderId"`
	Tags     *[]string      `json:"tags"`
	WordGoal OptionalInt    `json:"wordGoal"`
	Synopsis *string        `json:"synopsis"`
}

// SettingsPatch carries a partial settings update.
type SettingsPatch struct {
	FontFamily  *string  `json:"fontFamily"`
	FontSize    *int     `json:"fontSize"`
	LineHeight  *float64 `json:"lineHeight"`
	EditorWidth *int     `json:"editorWidth"`
	Theme       *string  `json:"theme"`
}

// cloneDocument returns a copy that shares no mutable state with the
// original, so callers cannot mutate store state through returned records.
func cloneDocument(d Document) Document {
	c := d
	if d.FolderID != nil {
		v := *d.FolderID
		c.FolderID = &v
	}
	if d.WordGoal != nil {
		v := *d.WordGoal
		c.WordGoal = &v
	}
	c.Tags = append([]string{}, d.Tags...)
	c.Snapshots = append([]Snapshot{}, d.Snapshots...)
	return c
}
