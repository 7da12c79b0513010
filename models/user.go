package models

// User is the local view of the signed-in identity. The session service is
// the sole writer of the current user value; every other component receives
// a read-only copy.
type User struct {
	// ID is the opaque, stable identifier assigned by the identity provider.
	// Immutable once assigned.
	ID string `json:"id"`

	// Email is the normalized (lowercase) address the user signed in with.
	// Always non-empty for an authenticated user.
	Email string `json:"email"`

	// Name is the optional display name. It is set immediately at signup and
	// may later be replaced by the name resolution cascade.
	Name string `json:"name,omitempty"`
}
