//go:build js && wasm

package storage

import (
	"fmt"
	"syscall/js"
)

// LocalStorageBackend bridges window.localStorage for the wasm build.
// localStorage is synchronous on the JS side, so every call completes
// before control returns to the event loop.
type LocalStorageBackend struct {
	store js.Value
}

// NewLocalStorageBackend binds to window.localStorage.
// Returns ErrUnavailable if the host does not expose it (private
// browsing modes, sandboxed frames).
func NewLocalStorageBackend() (*LocalStorageBackend, error) {
	ls := js.Global().Get("localStorage")
	if ls.IsUndefined() || ls.IsNull() {
		return nil, fmt.Errorf("localStorage: %w", ErrUnavailable)
	}
	return &LocalStorageBackend{store: ls}, nil
}

// Get returns the value at key.
func (b *LocalStorageBackend) Get(key string) (value string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, ok = "", false
			err = fmt.Errorf("getItem %s: %v: %w", key, r, ErrUnavailable)
		}
	}()

	v := b.store.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", false, nil
	}
	return v.String(), true, nil
}

// Set writes value under key. A throwing setItem is how browsers report
// a full quota, so the panic is mapped to ErrQuotaExceeded.
func (b *LocalStorageBackend) Set(key, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("setItem %s: %v: %w", key, r, ErrQuotaExceeded)
		}
	}()

	b.store.Call("setItem", key, value)
	return nil
}

// Remove deletes the value at key.
func (b *LocalStorageBackend) Remove(key string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("removeItem %s: %v: %w", key, r, ErrUnavailable)
		}
	}()

	b.store.Call("removeItem", key)
	return nil
}
