package extract

import "errors"

// Sentinel kinds for extraction errors.
var (
	ErrMalformedPayload = errors.New("malformed match payload")
)
