package journey

import "errors"

// Journey domain errors
var (
	ErrRuleNotFound  = errors.New("journey rule not found")
	ErrEntryNotFound = errors.New("journey entry not found")
)
