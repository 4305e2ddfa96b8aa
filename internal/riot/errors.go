package riot

import "errors"

// Sentinel kinds for upstream API errors.
var (
	// ErrNotFound marks an upstream 404: the resource is gone, not
	// transient, and is never retried.
	ErrNotFound = errors.New("resource not found")

	// ErrBadResponse marks a 2xx body that failed to decode.
	ErrBadResponse = errors.New("undecodable upstream response")
)
