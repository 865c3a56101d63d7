package ratelimit

import (
	"fmt"
	"time"
)

// Error reports that a key exceeded its budget for the current window.
type Error struct {
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// RetryAfterSeconds returns the retry delay rounded up to whole seconds,
// suitable for a Retry-After header.
func (e *Error) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
