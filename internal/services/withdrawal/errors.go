package withdrawal

import "errors"

var (
	ErrReasonRequired = errors.New("a failure reason is required")
	ErrNotOwner       = errors.New("withdrawal does not belong to this organizer")
)
