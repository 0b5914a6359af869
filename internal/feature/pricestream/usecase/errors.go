// Package usecase implements the live price streaming pipeline:
// session bookkeeping, subscriptions, periodic emission and the connection lifecycle.
package usecase

import "errors"

var (
	// ErrNoCredential is returned when none of the credential carriers holds a token.
	ErrNoCredential = errors.New("no credential provided")

	// ErrInvalidCredential is returned when a token fails verification or belongs to a non-client user.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrSessionExists is returned when a transport is registered twice.
	ErrSessionExists = errors.New("session already registered")

	// ErrNotAuthenticated is returned for requests on a session the registry does not know.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidRequest is returned when a subscription payload is missing or malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownEvent is returned for inbound frames with an unsupported event name.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrCatalogUnavailable is returned when the symbol catalog cannot be read during a request.
	ErrCatalogUnavailable = errors.New("symbol catalog unavailable")

	// ErrOutboundFull is returned by a transport whose send buffer is saturated.
	ErrOutboundFull = errors.New("outbound buffer full")

	// ErrOutboundClosed is returned by a transport that has already been closed.
	ErrOutboundClosed = errors.New("outbound channel closed")
)
