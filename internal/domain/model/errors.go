package model

import "errors"

// Sentinel kinds for model parsing errors.
var (
	ErrBadOutcome = errors.New("invalid outcome value")
)
