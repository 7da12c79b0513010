// Package store provides the local persistence layer: a SQLite-backed
// display-name cache that survives process restarts on the same device.
package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// NameCache is a single persistent key-value slot holding the last display
// name resolved on this device. The slot is overwritten on every successful
// resolution and is deliberately NOT cleared on logout: a different user
// signing in on the same device briefly sees the previous cached name until
// resolution completes.
type NameCache interface {
	// Get returns the cached display name. Returns [ErrNameNotCached]
	// (wrapped) when the slot has never been written.
	Get(ctx context.Context) (string, error)

	// Set overwrites the slot with value.
	Set(ctx context.Context, value string) error
}
