package jwtx

import "errors"

var (
	// ErrNoSecret reports a missing signing secret. This is a fatal
	// configuration error surfaced at startup, never per-request.
	ErrNoSecret = errors.New("jwtx: signing secret is not configured")

	// ErrExpired reports a structurally valid token past its expiry (or not
	// yet valid). Distinguished from ErrMalformed for observability only;
	// callers must reject both identically.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrMalformed reports a token that failed signature, structure, issuer
	// or audience checks.
	ErrMalformed = errors.New("jwtx: token malformed or forged")
)
