package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravewriter/gograve/internal/storage"
	"github.com/gravewriter/gograve/pkg/stats"
)

// Persisted state layout: three independent keys under a shared namespace.
const (
	KeyDocuments      = "gravewriter:documents"
	KeySettings       = "gravewriter:settings"
	KeyActiveDocument = "gravewriter:active-document"
)

// Store owns the application state: the document collection, the editor
// settings, and the active-document pointer. All mutation goes through
// its methods; every mutation persists the affected slice synchronously.
//
// Persistence failures never propagate as panics out of mutation
// methods: they are reflected in the save status (and returned for
// callers that care), and the in-memory state remains the source of
// truth for the current session.
//
// Thread-safe for concurrent WASM callbacks.
type Store struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	logger  *slog.Logger

	documents []Document
	settings  Settings
	activeID  *string

	status   SaveStatus
	notified SaveStatus
	onStatus []func(SaveStatus)

	// editPending is set while the auto-save controller holds an
	// uncommitted edit. Successful persists of unrelated state keep
	// the indicator at saving until the commit resolves it.
	editPending bool

	// degraded means the startup probe found no usable storage. The
	// session keeps working in memory only and the status stays error.
	degraded bool
}

// New creates a store hydrated from the adapter. Absent or corrupt
// stored state falls back to empty/default values; an unusable backend
// leaves the store in a memory-only degraded session.
func New(adapter *storage.Adapter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		adapter:   adapter,
		logger:    logger,
		documents: []Document{},
		settings:  DefaultSettings(),
		status:    StatusSaved,
	}

	if !adapter.IsAvailable() {
		s.degraded = true
		s.status = StatusError
		s.notified = s.status
		logger.Warn("storage unavailable, changes will not survive a reload")
		return s
	}

	s.notified = s.status
	s.hydrate()
	return s
}

// hydrate loads the three persisted slices. Each one degrades to its
// default independently.
func (s *Store) hydrate() {
	var docs []Document
	if found, err := s.adapter.Load(KeyDocuments, &docs); err != nil {
		s.logger.Error("load documents", slog.String("error", err.Error()))
	} else if found {
		for i := range docs {
			if docs[i].Tags == nil {
				docs[i].Tags = []string{}
			}
			if docs[i].Snapshots == nil {
				docs[i].Snapshots = []Snapshot{}
			}
		}
		s.documents = docs
	}

	var settings Settings
	if found, err := s.adapter.Load(KeySettings, &settings); err != nil {
		s.logger.Error("load settings", slog.String("error", err.Error()))
	} else if found {
		if err := settings.Validate(); err != nil {
			s.logger.Warn("stored settings out of range, using defaults",
				slog.String("error", err.Error()))
		} else {
			s.settings = settings
		}
	}

	var activeID *string
	if found, err := s.adapter.Load(KeyActiveDocument, &activeID); err != nil {
		s.logger.Error("load active document", slog.String("error", err.Error()))
	} else if found {
		s.activeID = activeID
	}
}

// =============================================================================
// Save status
// =============================================================================

// SaveStatus returns the current indicator state.
func (s *Store) SaveStatus() SaveStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// OnSaveStatus registers a callback invoked after every status change.
// Callbacks run outside the store lock and may call back into the store.
func (s *Store) OnSaveStatus(fn func(SaveStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = append(s.onStatus, fn)
}

// MarkSaving flips the indicator to "saving" and latches the pending
// edit. Called by the auto-save controller the moment an edit is
// buffered, before any commit happens. Until the controller resolves
// the edit with MarkSaved, no persist may report saved.
func (s *Store) MarkSaving() {
	s.mu.Lock()
	s.editPending = true
	s.setStatusLocked(StatusSaving)
	s.mu.Unlock()
	s.notifyStatus()
}

// MarkSaved releases the pending-edit latch once the buffered content
// has been committed or dropped. Only a saving indicator flips to
// saved; a persist error stays visible.
func (s *Store) MarkSaved() {
	s.mu.Lock()
	s.editPending = false
	if s.status == StatusSaving {
		s.setStatusLocked(StatusSaved)
	}
	s.mu.Unlock()
	s.notifyStatus()
}

// setStatusLocked updates the status. A degraded session is pinned to
// error.
func (s *Store) setStatusLocked(status SaveStatus) {
	if s.degraded {
		status = StatusError
	}
	s.status = status
}

// notifyStatus fires the registered callbacks if the status changed
// since the last notification. Callbacks run outside the lock.
func (s *Store) notifyStatus() {
	s.mu.Lock()
	if s.status == s.notified {
		s.mu.Unlock()
		return
	}
	s.notified = s.status
	status := s.status
	callbacks := append([]func(SaveStatus){}, s.onStatus...)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn(status)
	}
}

// persistLocked writes one slice of state through the adapter and folds
// the outcome into the save status. Callers hold the write lock.
func (s *Store) persistLocked(key string, v any) error {
	if s.degraded {
		s.setStatusLocked(StatusError)
		return fmt.Errorf("persist %s: %w", key, storage.ErrUnavailable)
	}
	if err := s.adapter.Save(key, v); err != nil {
		s.logger.Error("persist failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		s.setStatusLocked(StatusError)
		return err
	}
	// While an edit is buffered, only the auto-save commit path may
	// report saved; persisting other state keeps the saving indicator.
	if !s.editPending {
		s.setStatusLocked(StatusSaved)
	}
	return nil
}

// =============================================================================
// Document CRUD
// =============================================================================

// CreateDocument allocates an empty document, makes it active, persists
// both slices, and returns its id. The id is generated here and never
// reused. The returned error only reports persistence trouble; the
// document exists in memory regardless.
func (s *Store) CreateDocument() (string, error) {
	now := time.Now().UnixMilli()
	doc := Document{
		ID:        uuid.NewString(),
		Title:     "",
		Content:   "",
		FolderID:  nil,
		Tags:      []string{},
		WordGoal:  nil,
		Synopsis:  "",
		Snapshots: []Snapshot{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.documents = append(s.documents, doc)
	id := doc.ID
	s.activeID = &id
	err := s.persistLocked(KeyDocuments, s.documents)
	if err2 := s.persistLocked(KeyActiveDocument, s.activeID); err == nil {
		err = err2
	}
	s.mu.Unlock()
	s.notifyStatus()

	return doc.ID, err
}

// UpdateDocument merges the patch into the document matching id and
// rewrites updatedAt. Unknown ids are a no-op, not an error: UI-driven
// races against deletion are expected and harmless.
func (s *Store) UpdateDocument(id string, patch DocumentPatch) error {
	now := time.Now().UnixMilli()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("update for unknown document", slog.String("id", id))
		return nil
	}

	doc := &s.documents[idx]
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Content != nil {
		doc.Content = *patch.Content
	}
	if patch.FolderID.Present {
		doc.FolderID = patch.FolderID.Value
	}
	if patch.Tags != nil {
		doc.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.WordGoal.Present {
		doc.WordGoal = patch.WordGoal.Value
	}
	if patch.Synopsis != nil {
		doc.Synopsis = *patch.Synopsis
	}
	doc.UpdatedAt = now

	err := s.persistLocked(KeyDocuments, s.documents)
	s.mu.Unlock()
	s.notifyStatus()

	return err
}

// DeleteDocument removes the document. If it was active, the active
// pointer becomes null. Unknown ids are a no-op.
func (s *Store) DeleteDocument(id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	s.documents = append(s.documents[:idx], s.documents[idx+1:]...)
	err := s.persistLocked(KeyDocuments, s.documents)
	if s.activeID != nil && *s.activeID == id {
		s.activeID = nil
		if err2 := s.persistLocked(KeyActiveDocument, s.activeID); err == nil {
			err = err2
		}
	}
	s.mu.Unlock()
	s.notifyStatus()

	return err
}

// SetActiveDocument reassigns the active pointer. The id is not
// validated against the collection; reads resolve dangling pointers as
// "no active document".
func (s *Store) SetActiveDocument(id *string) error {
	s.mu.Lock()
	if id != nil {
		v := *id
		id = &v
	}
	s.activeID = id
	err := s.persistLocked(KeyActiveDocument, s.activeID)
	s.mu.Unlock()
	s.notifyStatus()

	return err
}

// Document returns a copy of the document matching id.
func (s *Store) Document(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Document{}, false
	}
	return cloneDocument(s.documents[idx]), true
}

// Documents returns copies of every document in the collection.
// Ordering is storage order; presentation ordering is the UI's concern.
func (s *Store) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, len(s.documents))
	for i, d := range s.documents {
		out[i] = cloneDocument(d)
	}
	return out
}

// ActiveDocumentID returns the raw active pointer, which may dangle.
func (s *Store) ActiveDocumentID() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeID == nil {
		return nil
	}
	v := *s.activeID
	return &v
}

// ActiveDocument resolves the active pointer. A pointer to a deleted
// document reads as "no active document".
func (s *Store) ActiveDocument() (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeID == nil {
		return Document{}, false
	}
	idx := s.indexLocked(*s.activeID)
	if idx < 0 {
		return Document{}, false
	}
	return cloneDocument(s.documents[idx]), true
}

// ActiveWordCount reports the active document's word count, zero when
// no document is active. Backs the editor footer.
func (s *Store) ActiveWordCount() int {
	doc, ok := s.ActiveDocument()
	if !ok {
		return 0
	}
	return stats.WordCount(doc.Content)
}

// indexLocked finds a document by id. Callers hold at least the read lock.
func (s *Store) indexLocked(id string) int {
	for i := range s.documents {
		if s.documents[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// Snapshots
// =============================================================================

// CreateSnapshot freezes the document's current content, with the word
// count computed once at capture time, and appends it to the snapshot
// list in chronological order. Unknown ids are a no-op.
func (s *Store) CreateSnapshot(documentID string) (string, error) {
	now := time.Now().UnixMilli()

	s.mu.Lock()
	idx := s.indexLocked(documentID)
	if idx < 0 {
		s.mu.Unlock()
		return "", nil
	}

	doc := &s.documents[idx]
	snap := Snapshot{
		ID:        uuid.NewString(),
		Content:   doc.Content,
		WordCount: stats.WordCount(doc.Content),
		Timestamp: now,
	}
	doc.Snapshots = append(doc.Snapshots, snap)

	err := s.persistLocked(KeyDocuments, s.documents)
	s.mu.Unlock()
	s.notifyStatus()

	return snap.ID, err
}

// RestoreSnapshot copies the snapshot's content back into the document.
// The snapshot itself is never touched; restoring is a plain content
// write with a fresh updatedAt. Unknown ids are a no-op.
func (s *Store) RestoreSnapshot(documentID, snapshotID string) error {
	now := time.Now().UnixMilli()

	s.mu.Lock()
	idx := s.indexLocked(documentID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	doc := &s.documents[idx]
	snapIdx := -1
	for i := range doc.Snapshots {
		if doc.Snapshots[i].ID == snapshotID {
			snapIdx = i
			break
		}
	}
	if snapIdx < 0 {
		s.mu.Unlock()
		return nil
	}

	doc.Content = doc.Snapshots[snapIdx].Content
	doc.UpdatedAt = now

	err := s.persistLocked(KeyDocuments, s.documents)
	s.mu.Unlock()
	s.notifyStatus()

	return err
}

// DeleteSnapshot removes a snapshot from the document's list.
// Unknown ids are a no-op.
func (s *Store) DeleteSnapshot(documentID, snapshotID string) error {
	s.mu.Lock()
	idx := s.indexLocked(documentID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	doc := &s.documents[idx]
	for i := range doc.Snapshots {
		if doc.Snapshots[i].ID == snapshotID {
			doc.Snapshots = append(doc.Snapshots[:i], doc.Snapshots[i+1:]...)
			err := s.persistLocked(KeyDocuments, s.documents)
			s.mu.Unlock()
			s.notifyStatus()
			return err
		}
	}
	s.mu.Unlock()
	return nil
}

// =============================================================================
// Settings
// =============================================================================

// Settings returns the current editor settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings merges the patch into the singleton settings and
// persists immediately, no debounce. An out-of-range merge is rejected
// whole: the error is returned and the prior settings stay in effect.
func (s *Store) UpdateSettings(patch SettingsPatch) error {
	s.mu.Lock()
	merged := s.settings
	if patch.FontFamily != nil {
		merged.FontFamily = *patch.FontFamily
	}
	if patch.FontSize != nil {
		merged.FontSize = *patch.FontSize
	}
	if patch.LineHeight != nil {
		merged.LineHeight = *patch.LineHeight
	}
	if patch.EditorWidth != nil {
		merged.EditorWidth = *patch.EditorWidth
	}
	if patch.Theme != nil {
		merged.Theme = *patch.Theme
	}

	if err := merged.Validate(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("settings: %w", err)
	}

	s.settings = merged
	err := s.persistLocked(KeySettings, s.settings)
	s.mu.Unlock()
	s.notifyStatus()

	return err
}

// Degraded reports whether the session is running without durable
// storage. The UI uses this for the "changes will not survive" warning.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}
