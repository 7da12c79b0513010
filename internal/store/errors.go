package store

import "errors"

var (
	// ErrNameNotCached is returned by [NameCache.Get] when no display name
	// has ever been persisted on this device.
	ErrNameNotCached = errors.New("display name not cached")
)
