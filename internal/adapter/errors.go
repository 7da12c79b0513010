package adapter

import "errors"

var (
	// ErrInvalidCredentials is returned by SignIn when the provider rejects
	// the email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned by SignUp when the address is already
	// registered with the provider.
	ErrEmailTaken = errors.New("email already in use")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
)
