package models

// Principal is the authenticated identity reported by the identity provider
// on a session change. Adapters deliver a nil *Principal when the provider
// reports that no session is active.
type Principal struct {
	// ID is the provider-assigned subject identifier ("sub" claim).
	ID string `json:"id"`

	// Email is the address the provider has on record for the session.
	Email string `json:"email"`

	// Name is the provider-supplied display name, if the provider has one.
	Name string `json:"name,omitempty"`
}
