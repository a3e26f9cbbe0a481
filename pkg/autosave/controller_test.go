package autosave

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravewriter/gograve/internal/storage"
	"github.com/gravewriter/gograve/internal/store"
)

const (
	testDebounce = 60 * time.Millisecond
	testHold     = 150 * time.Millisecond
)

func newSession(t *testing.T) (*store.Store, *storage.MemoryBackend, string) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	s := store.New(storage.NewAdapter(backend, nil), nil)
	id, err := s.CreateDocument()
	require.NoError(t, err)
	return s, backend, id
}

func TestDebounceCommitsOnlyLastEdit(t *testing.T) {
	s, _, id := newSession(t)
	c := NewWithTiming(s, testDebounce, testHold)
	defer c.Stop()

	var commits atomic.Int32
	s.OnSaveStatus(func(status store.SaveStatus) {
		if status == store.StatusSaved {
			commits.Add(1)
		}
	})

	// A burst of edits inside the debounce window.
	for _, content := range []string{"t", "th", "the", "the cr", "the crypt"} {
		c.RecordEdit(id, content)
		time.Sleep(15 * time.Millisecond)
	}

	// Still inside the quiet window: nothing committed yet.
	doc, ok := s.Document(id)
	require.True(t, ok)
	assert.Equal(t, "", doc.Content)
	assert.Equal(t, store.StatusSaving, c.Status())

	time.Sleep(testDebounce + 50*time.Millisecond)

	doc, ok = s.Document(id)
	require.True(t, ok)
	assert.Equal(t, "the crypt", doc.Content)
	assert.Equal(t, store.StatusSaved, c.Status())
	assert.EqualValues(t, 1, commits.Load())
}

func TestStatusTransitions(t *testing.T) {
	s, _, id := newSession(t)
	c := NewWithTiming(s, testDebounce, testHold)
	defer c.Stop()

	assert.Equal(t, store.StatusSaved, c.Status())

	c.RecordEdit(id, "hello world")
	assert.Equal(t, store.StatusSaving, c.Status())
	assert.True(t, c.IndicatorVisible())

	time.Sleep(testDebounce + 50*time.Millisecond)
	assert.Equal(t, store.StatusSaved, c.Status())

	// Saved stays visible for the hold window, then the UI may hide it.
	assert.True(t, c.IndicatorVisible())
	time.Sleep(testHold)
	assert.Equal(t, store.StatusSaved, c.Status())
	assert.False(t, c.IndicatorVisible())
}

func TestSaveNowBypassesDebounce(t *testing.T) {
	s, _, id := newSession(t)
	c := NewWithTiming(s, time.Hour, testHold)
	defer c.Stop()

	c.RecordEdit(id, "committed by hand")
	c.SaveNow()

	doc, ok := s.Document(id)
	require.True(t, ok)
	assert.Equal(t, "committed by hand", doc.Content)
	assert.Equal(t, store.StatusSaved, c.Status())
	assert.False(t, c.Dirty())
}

func TestSaveNowWithoutPendingEditIsNoop(t *testing.T) {
	s, _, _ := newSession(t)
	c := NewWithTiming(s, testDebounce, testHold)
	defer c.Stop()

	c.SaveNow()
	assert.Equal(t, store.StatusSaved, c.Status())
}

func TestCommitFailureTurnsStatusError(t *testing.T) {
	s, backend, id := newSession(t)
	c := NewWithTiming(s, testDebounce, testHold)
	defer c.Stop()

	backend.SetBroken(true)
	c.RecordEdit(id, "doomed to stay in memory")
	time.Sleep(testDebounce + 50*time.Millisecond)

	assert.Equal(t, store.StatusError, c.Status())
	assert.True(t, c.IndicatorVisible())

	// The live session keeps the edit even though durability failed.
	doc, ok := s.Document(id)
	require.True(t, ok)
	assert.Equal(t, "doomed to stay in memory", doc.Content)
}

func TestBlocksNavigationWhilePending(t *testing.T) {
	s, _, id := newSession(t)
	c := NewWithTiming(s, testDebounce, testHold)
	defer c.Stop()

	assert.False(t, c.BlocksNavigation())

	c.RecordEdit(id, "unsaved")
	assert.True(t, c.BlocksNavigation())

	time.Sleep(testDebounce + 50*time.Millisecond)
	assert.False(t, c.BlocksNavigation())
}

func TestDocumentSwitchWhileEditPendingStaysSaving(t *testing.T) {
	s, _, id := newSession(t)
	c := NewWithTiming(s, testDebounce, testHold)
	defer c.Stop()

	other, err := s.CreateDocument()
	require.NoError(t, err)
	require.NoError(t, s.SetActiveDocument(&id))

	c.RecordEdit(id, "uncommitted edit")
	require.Equal(t, store.StatusSaving, c.Status())
	require.True(t, c.Dirty())

	// Switching documents persists the active pointer, but the edit is
	// still buffered: the indicator must not flip to saved.
	require.NoError(t, s.SetActiveDocument(&other))
	assert.Equal(t, store.StatusSaving, c.Status())
	assert.True(t, c.Dirty())
	assert.True(t, c.BlocksNavigation())

	time.Sleep(testDebounce + 50*time.Millisecond)
	assert.Equal(t, store.StatusSaved, c.Status())
	assert.False(t, c.Dirty())
	assert.False(t, c.BlocksNavigation())
}

func TestStopDropsPendingEdit(t *testing.T) {
	s, _, id := newSession(t)
	c := NewWithTiming(s, testDebounce, testHold)

	c.RecordEdit(id, "never committed")
	c.Stop()
	time.Sleep(testDebounce + 50*time.Millisecond)

	doc, ok := s.Document(id)
	require.True(t, ok)
	assert.Equal(t, "", doc.Content)

	// The dropped edit releases the saving indicator: store state and
	// persisted state agree again.
	assert.Equal(t, store.StatusSaved, c.Status())
	assert.False(t, c.BlocksNavigation())
}
