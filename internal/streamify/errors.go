package streamify

import (
	"errors"

	"sluice/internal/rewrite"
)

// attemptError marks a structural violation: the surrounding attempt
// rolls back as a whole instead of trying further rules.
type attemptError struct {
	*rewrite.MatchError
}

func (e *attemptError) Unwrap() error { return e.MatchError }

// IsAttemptFailure reports whether err fails the whole attempt rather
// than declining a single rule.
func IsAttemptFailure(err error) bool {
	var ae *attemptError
	return errors.As(err, &ae)
}
