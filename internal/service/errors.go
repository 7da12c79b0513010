package service

import "errors"

var (
	// ErrNotStarted signals a usage defect: a session-scoped operation was
	// invoked before Start established the provider subscription.
	ErrNotStarted = errors.New("session service not started")

	// ErrAlreadyStarted signals a usage defect: Start was called on a
	// service that already owns an active subscription.
	ErrAlreadyStarted = errors.New("session service already started")

	// ErrProfileWrite is returned by Signup when the profile record write
	// fails after the provider account was created. The account remains
	// valid; no rollback is attempted.
	ErrProfileWrite = errors.New("profile record write failed")
)
