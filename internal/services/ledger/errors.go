package ledger

import "errors"

var (
	ErrMissingReference = errors.New("payment event has no gateway reference")
	ErrNoParticipants   = errors.New("payment event has no participants")
)
