package service

import "errors"

// Sentinel errors the HTTP layer maps onto classified responses with
// errors.Is. Keep messages generic; the handler adds no detail either, so
// a caller cannot probe which part of a credential check failed.
var (
	// ErrInvalidCredentials covers both unknown contact and wrong password.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrContactTaken means the contact is already registered.
	ErrContactTaken = errors.New("service: contact already registered")

	// ErrRefreshRejected means the refresh credential failed verification or
	// its subject no longer exists. Terminal for the session.
	ErrRefreshRejected = errors.New("service: refresh credential rejected")

	// ErrUnknownUser means the subject of a verified credential has no row,
	// e.g. a deleted account with a still-live access token.
	ErrUnknownUser = errors.New("service: unknown user")

	// ErrInvalidInput covers malformed registration/login fields.
	ErrInvalidInput = errors.New("service: invalid input")
)
