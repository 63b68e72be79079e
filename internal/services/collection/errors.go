package collection

import "errors"

var (
	ErrTitleRequired    = errors.New("collection title is required")
	ErrDeadlinePast     = errors.New("deadline must be in the future")
	ErrInvalidCap       = errors.New("max participants must be positive")
	ErrInvalidFeeBearer = errors.New("fee bearer must be organizer or contributor")
	ErrCodeGeneration   = errors.New("could not generate a unique share code")
	ErrMissingField     = errors.New("a required contributor field is missing")
)
