package auth

import "errors"

var (
	// ErrInvalidInput marks malformed or missing request fields.
	ErrInvalidInput = errors.New("auth: invalid input")
	// ErrNotFound indicates an unknown user id.
	ErrNotFound = errors.New("auth: not found")
	// ErrEmailInUse indicates a signup with an already registered email.
	ErrEmailInUse = errors.New("auth: email already in use")
	// ErrWrongCredentials covers both unknown email and wrong password so
	// callers cannot enumerate accounts.
	ErrWrongCredentials = errors.New("auth: wrong credentials")
	// ErrInvalidToken covers malformed, forged and expired tokens alike.
	ErrInvalidToken = errors.New("auth: invalid token")
)
