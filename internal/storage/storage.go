// Package storage provides the JSON key/value persistence layer for GoGrave.
// Values are serialized as JSON and written through a pluggable string
// key/value Backend: browser localStorage in the wasm build, SQLite on
// native platforms, in-memory for tests and degraded sessions.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors for the two failure kinds a backend can surface.
// Match with errors.Is; backends wrap these with context.
var (
	// ErrUnavailable means the underlying store cannot be used at all
	// (e.g. localStorage disabled by the host environment).
	ErrUnavailable = errors.New("storage unavailable")

	// ErrQuotaExceeded means a write exceeded the host's capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Backend is a raw synchronous string key/value store.
type Backend interface {
	// Get returns the value at key. ok is false if the key was never written.
	Get(key string) (value string, ok bool, err error)

	// Set writes value under key, overwriting any prior value.
	Set(key, value string) error

	// Remove deletes the value at key. Removing an absent key is not an error.
	Remove(key string) error
}

// Adapter serializes values to JSON and round-trips them through a Backend.
// The adapter holds no state of its own beyond the backend it wraps.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

// NewAdapter wraps a backend. A nil logger falls back to slog.Default.
func NewAdapter(b Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{backend: b, logger: logger}
}

// Save serializes v to JSON and writes it under key.
func (a *Adapter) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return a.backend.Set(key, string(data))
}

// Load reads the value at key into dst. Returns found=false when the key
// was never written. Corrupt stored data is treated as absent: it is
// logged and skipped, never surfaced as an error, so a damaged store
// degrades to empty state instead of failing startup.
func (a *Adapter) Load(key string, dst any) (found bool, err error) {
	raw, ok, err := a.backend.Get(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		a.logger.Warn("discarding corrupt stored value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false, nil
	}
	return true, nil
}

// Delete removes the value at key. Idempotent.
func (a *Adapter) Delete(key string) error {
	return a.backend.Remove(key)
}

// IsAvailable probes whether the backend can be written to and read back.
// It never returns an error; any failure means unavailable.
func (a *Adapter) IsAvailable() bool {
	const probeKey = "gravewriter:probe"
	const probeValue = "1"

	if err := a.backend.Set(probeKey, probeValue); err != nil {
		return false
	}
	v, ok, err := a.backend.Get(probeKey)
	if err != nil || !ok || v != probeValue {
		return false
	}
	return a.backend.Remove(probeKey) == nil
}
