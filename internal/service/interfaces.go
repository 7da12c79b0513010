// Package service implements the session and identity resolution core: the
// process-wide session store with its credential workflows, and the display
// name resolution cascade.
package service

import (
	"context"

	"github.com/MKhiriev/go-session-gate/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SessionReader is the read-only session view consumed by route guards and
// request handlers.
type SessionReader interface {
	// CurrentUser returns a copy of the current signed-in user, or nil when
	// no session is active. Returns [ErrNotStarted] (a usage error signalling
	// a programming defect) when the service lifecycle has not begun.
	CurrentUser() (*models.User, error)
}

// SessionWatcher lets collaborators observe session changes.
type SessionWatcher interface {
	// OnChange registers fn to be invoked with a copy of the user (nil when
	// signed out) after every session change. The returned function removes
	// the registration. Returns [ErrNotStarted] before Start.
	OnChange(fn func(user *models.User)) (unsubscribe func(), err error)
}

// SessionService is the process-wide authority for the current signed-in
// identity. It owns exactly one provider subscription between Start and Stop
// and is the sole writer of the user value; all consumers read copies.
type SessionService interface {
	SessionReader
	SessionWatcher

	// Start subscribes to the identity provider's session-change
	// notifications. Calling Start on a started service returns
	// [ErrAlreadyStarted].
	Start(ctx context.Context) error

	// Stop releases the provider subscription. Safe to call once after a
	// successful Start; no-op on a service that never started.
	Stop()

	// Login delegates to the provider's sign-in operation. The session value
	// is NOT updated here: it updates reactively once the provider confirms
	// the session change through the subscription. Provider credential
	// errors are surfaced verbatim; nothing is retried.
	Login(ctx context.Context, email, password string) error

	// Signup creates the account with the provider, writes the profile
	// record to the document store, and immediately sets the local user so
	// the chosen name is available before the provider's own notification
	// arrives. A profile write failure after account creation returns
	// [ErrProfileWrite] (wrapped) and leaves the account without a record;
	// the name cascade tolerates that state.
	Signup(ctx context.Context, email, password, name string) error

	// Logout delegates to the provider's sign-out operation, then clears the
	// local user as a safety net in case the provider's notification is
	// delayed. The subscription-driven clear that follows is idempotent.
	Logout(ctx context.Context) error
}

// NameResolver derives the best available display name for the signed-in
// user, reconciling the persistent device cache, the locally known name, a
// stored profile record, and an email-derived fallback.
type NameResolver interface {
	// Start subscribes to session changes and begins resolving. Returns
	// [ErrAlreadyStarted] when called twice without Stop.
	Start(ctx context.Context, sessions SessionWatcher) error

	// Stop removes the session subscription and waits for any in-flight
	// lookup to finish.
	Stop()

	// Display returns the current resolution snapshot.
	Display() models.DisplayState
}
