package config

import "fmt"

// ValidationError reports a missing or invalid user-supplied value.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Key, e.Reason)
}
