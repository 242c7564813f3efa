// Package selection turns a candidate shortlist into a constraint-satisfying squad
// proposal by consulting an external oracle, parsing and validating its answer,
// and retrying once with corrective feedback.
package selection

import (
	"fmt"

	"go.trai.ch/zerr"
)

// ErrUnparsable is recorded when an oracle response contains none of the expected sections.
var ErrUnparsable = zerr.New("oracle response has no recognizable sections")

// Error represents a failure while preparing an oracle request
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
