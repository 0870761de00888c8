package apiretry

import "notifybot/internal/adapter/telegram/botapi"

// Kind classifies a failed attempt for retry purposes.
type Kind int

const (
	// KindNotRetryable is any failure that is not a structured Bot API error:
	// transport faults, cancelled contexts, decode errors. Never retried.
	KindNotRetryable Kind = iota
	// KindRateLimited is an API error carrying a retry_after hint.
	KindRateLimited
	// KindServerError is an API error with code >= 500.
	KindServerError
	// KindOtherAPIError is any remaining structured API error.
	KindOtherAPIError
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "RateLimited"
	case KindServerError:
		return "ServerError"
	case KindOtherAPIError:
		return "OtherAPIError"
	default:
		return "NotRetryable"
	}
}

// Classify inspects a failed attempt's error. The second return is the
// extracted API error, nil for KindNotRetryable.
//
// A server-class error stays KindServerError even when it carries a
// retry_after hint; the retry loop reads the hint separately so that the
// rethrow-server-errors policy wins over the wait.
func Classify(err error) (Kind, *botapi.Error) {
	apiErr, ok := botapi.AsError(err)
	if !ok {
		return KindNotRetryable, nil
	}
	switch {
	case apiErr.IsServerError():
		return KindServerError, apiErr
	case apiErr.RetryAfterDuration() > 0:
		return KindRateLimited, apiErr
	default:
		return KindOtherAPIError, apiErr
	}
}
