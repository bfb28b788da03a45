package auth

import (
	"errors"
	"fmt"
)

// the target exists but the principal's rank is insufficient.
var ErrDenied = errors.New("access denied")

type Denied struct {
	// "organization" or "project".
	Scope string

	TargetId string

	// rank that was required, as its wire string.
	Required string
}

var _ error = Denied{}

func (d Denied) Error() string {
	return fmt.Sprintf(
		"%s access denied: %s requires %s", d.Scope, d.TargetId, d.Required,
	)
}

func (d Denied) Unwrap() error {
	return ErrDenied
}
