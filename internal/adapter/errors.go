package adapter

import "errors"

var (
	// ErrMalformedResponse is wrapped into a remote rejection when a body
	// cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response body")
	// ErrEmptyIdentity is wrapped into an auth error when a call is made
	// without an identity.
	ErrEmptyIdentity = errors.New("empty identity")
)
