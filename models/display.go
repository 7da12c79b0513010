package models

// DisplayState is the presentation-facing snapshot of the name resolution
// cascade: the best name currently known, whether a lookup is in flight, and
// a non-fatal advisory from the most recent failed lookup.
type DisplayState struct {
	// Name is the display name to greet the user with. Never empty once a
	// session has been observed: the cascade always falls back to the email
	// local-part or a literal placeholder.
	Name string `json:"name"`

	// Resolving reports whether an asynchronous profile lookup is in flight.
	Resolving bool `json:"resolving"`

	// Err is a soft, user-visible advisory set when the most recent lookup
	// failed. It never blocks display of a fallback name.
	Err string `json:"error,omitempty"`
}
