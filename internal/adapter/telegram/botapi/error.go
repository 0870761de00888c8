package botapi

import (
	"errors"
	"fmt"
	"time"
)

// ResponseParameters carries optional hints the Bot API attaches to errors.
type ResponseParameters struct {
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
	RetryAfter      int   `json:"retry_after,omitempty"`
}

// Error is a structured Bot API error: the server accepted the request and
// answered ok=false. Anything else (transport faults, bad JSON) is returned
// as a plain error and is not an *Error.
type Error struct {
	Code        int
	Description string
	Parameters  *ResponseParameters
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("telegram: %d %s", e.Code, e.Description)
}

// IsServerError reports whether the API signalled an internal fault.
func (e *Error) IsServerError() bool { return e.Code >= 500 }

// RetryAfterDuration returns the server-mandated wait, or 0 if the error
// carries no retry_after hint.
func (e *Error) RetryAfterDuration() time.Duration {
	if e.Parameters == nil || e.Parameters.RetryAfter <= 0 {
		return 0
	}
	return time.Duration(e.Parameters.RetryAfter) * time.Second
}

// AsError extracts a Bot API error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
