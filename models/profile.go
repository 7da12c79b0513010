package models

// ProfileRecord is the durable, provider-independent profile document stored
// in the remote document store, keyed by user id. It is written once at
// signup and read by the name resolution cascade. The document store is
// eventually consistent: a read may lag a just-completed write.
type ProfileRecord struct {
	// ID is the owning user's provider-assigned identifier.
	ID string `json:"id"`

	// Email is the lowercase address the record is findable by.
	Email string `json:"email"`

	// Name is the user's chosen display name.
	Name string `json:"name"`
}
