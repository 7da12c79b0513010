// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for the two remote
// capabilities the session subsystem consumes: the identity provider and the
// profile document store.
//
// The primary abstractions are [IdentityProvider] and [ProfileStore], which
// decouple the service layer from the underlying protocol. The package ships
// HTTP/REST implementations ([NewHTTPIdentityProvider],
// [NewHTTPProfileStore]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrInvalidCredentials] for a rejected sign-in,
// [ErrEmailTaken] for a conflicting sign-up).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-session-gate/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// SessionHandler receives session-change notifications from the identity
// provider. A nil principal means the provider reports no active session.
type SessionHandler func(principal *models.Principal)

// IdentityProvider defines transport-agnostic communication with the remote
// identity provider. Implementations are responsible for serialisation,
// bearer-token management, and mapping transport-level errors to the sentinel
// values defined in this package.
type IdentityProvider interface {
	// Subscribe opens the provider's session-change notification stream and
	// invokes handler for every session event until ctx is cancelled or the
	// returned unsubscribe function is called. The handler receives the
	// current principal, or nil when the provider reports no session.
	// Exactly one notification is delivered per provider-side session change;
	// delivery order matches provider order. The returned function blocks
	// until the stream goroutine has fully exited.
	Subscribe(ctx context.Context, handler SessionHandler) (unsubscribe func(), err error)

	// SignIn authenticates the given credentials with the provider. It does
	// NOT report the new session directly: the provider emits a session
	// change on the notification stream once the sign-in is confirmed.
	// Returns [ErrInvalidCredentials] (wrapped) when the provider rejects the
	// credentials.
	SignIn(ctx context.Context, email, password string) error

	// SignUp creates a new account with the provider and returns the
	// provider-assigned principal (id and email). The bearer token from the
	// response is retained for subsequent authenticated requests.
	// Returns [ErrEmailTaken] (wrapped) when the address is already in use.
	SignUp(ctx context.Context, email, password string) (models.Principal, error)

	// SignOut terminates the provider-side session. The provider emits a
	// signed-out session change on the notification stream afterwards.
	SignOut(ctx context.Context) error

	// Token returns the bearer token currently held by the adapter, or an
	// empty string if no authenticated call has completed yet.
	Token() string
}

// TokenSource supplies the bearer token attached to authenticated requests
// against collaborating services. [IdentityProvider] satisfies it.
type TokenSource interface {
	Token() string
}

// ProfileStore defines communication with the remote document store that
// holds durable profile records keyed by user id.
type ProfileStore interface {
	// WriteProfile stores record under the given user id, overwriting any
	// existing document. Called once per account, at signup.
	WriteProfile(ctx context.Context, id string, record models.ProfileRecord) error

	// FindProfileByEmail looks up at most one profile record whose email
	// field equals emailLowercase. Returns (nil, nil) when no record matches;
	// a non-nil error only for transport or store failures.
	FindProfileByEmail(ctx context.Context, emailLowercase string) (*models.ProfileRecord, error)
}
