package types

import (
	"context"
	"errors"
	"fmt"
)

// ChannelError indicates that an external collaborator (search or oracle) failed
// at the transport, availability or quota level.
type ChannelError struct {
	Collaborator string
	Op           string
	Cause        error
}

func (e *ChannelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Collaborator, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s %s failed", e.Collaborator, e.Op)
}

func (e *ChannelError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was a deadline expiry.
func (e *ChannelError) Timeout() bool {
	return errors.Is(e.Cause, context.DeadlineExceeded)
}
