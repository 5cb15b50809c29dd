package game

import "errors"

// Error kinds surfaced by the rules engine. IllegalAction and
// InvariantViolation are fatal: they indicate a bug in the caller or in
// a card hook, and the engine never attempts to repair state around
// them. UnknownCard is recoverable at the CLI boundary.
var (
	ErrIllegalAction      = errors.New("illegal action")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrUnknownCard        = errors.New("unknown card")
)
