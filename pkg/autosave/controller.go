// Package autosave decouples bursty editor input from the persistence
// path. Rapid content edits are debounced into a single document commit,
// and the save-status indicator follows along: saving the instant an
// edit lands, saved once the quiet window elapses and the commit sticks.
package autosave

import (
	"sync"
	"time"

	"github.com/gravewriter/gograve/internal/store"
)

const (
	// DefaultDebounce is the quiet window after the last edit before
	// the buffered content is committed.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultHold is how long the indicator stays visible after a save.
	DefaultHold = 2 * time.Second
)

// Controller owns the per-session debounce timer. Restarting the timer
// on each edit cancels the prior pending commit, and the commit always
// reads the latest buffered content at fire time, so of N edits in a
// burst exactly the last one is committed.
type Controller struct {
	mu       sync.Mutex
	store    *store.Store
	debounce time.Duration
	hold     time.Duration

	timer   *time.Timer
	docID   string
	pending string
	dirty   bool
	savedAt time.Time
}

// New creates a controller with the default timings.
func New(s *store.Store) *Controller {
	return NewWithTiming(s, DefaultDebounce, DefaultHold)
}

// NewWithTiming creates a controller with explicit timings. Tests use
// short windows here; the app uses the defaults.
func NewWithTiming(s *store.Store, debounce, hold time.Duration) *Controller {
	return &Controller{store: s, debounce: debounce, hold: hold}
}

// RecordEdit buffers the latest content for docID and restarts the
// debounce window. The indicator flips to saving immediately,
// before the timer ever fires.
func (c *Controller) RecordEdit(docID, content string) {
	c.mu.Lock()
	c.docID = docID
	c.pending = content
	c.dirty = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.commit)
	c.mu.Unlock()

	c.store.MarkSaving()
}

// SaveNow commits the buffered edit immediately, bypassing the debounce.
// With nothing buffered it does nothing.
func (c *Controller) SaveNow() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.commit()
}

// commit writes the buffered content through the store. The content is
// read under the lock at fire time, never captured when the timer was
// scheduled, so a burst commits only its final edit.
func (c *Controller) commit() {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return
	}
	docID, content := c.docID, c.pending
	c.dirty = false
	c.mu.Unlock()

	c.store.UpdateDocument(docID, store.DocumentPatch{Content: &content})

	c.mu.Lock()
	redirty := c.dirty
	c.mu.Unlock()

	// An edit that raced in while committing keeps the latch armed;
	// its own timer will resolve it.
	if redirty {
		return
	}

	c.store.MarkSaved()
	if c.store.SaveStatus() == store.StatusSaved {
		c.mu.Lock()
		c.savedAt = time.Now()
		c.mu.Unlock()
	}
}

// Status reports the store's indicator state.
func (c *Controller) Status() store.SaveStatus {
	return c.store.SaveStatus()
}

// Dirty reports whether an uncommitted edit is buffered.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// BlocksNavigation reports whether leaving the session should be
// intercepted: true while a commit is pending or in flight.
func (c *Controller) BlocksNavigation() bool {
	c.mu.Lock()
	dirty := c.dirty
	c.mu.Unlock()
	return dirty || c.store.SaveStatus() == store.StatusSaving
}

// IndicatorVisible reports whether the UI may still show the indicator:
// always while saving or errored, and for the hold window after a save.
func (c *Controller) IndicatorVisible() bool {
	if c.store.SaveStatus() != store.StatusSaved {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.savedAt.IsZero() && time.Since(c.savedAt) < c.hold
}

// Stop cancels any pending commit without flushing it. The dropped
// edit releases the saving indicator: the persisted state is once
// again what the store holds.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	dropped := c.dirty
	c.dirty = false
	c.mu.Unlock()

	if dropped {
		c.store.MarkSaved()
	}
}
