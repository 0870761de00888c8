// Package apiretry transparently retries Bot API calls that fail with
// recoverable errors.
//
// It wraps a botapi.Caller and re-issues failed attempts according to the
// API's own hints and an exponential backoff:
//
//   - rate-limit errors (retry_after present) wait exactly the server-mandated
//     interval, then reset the backoff;
//   - server errors (code >= 500) wait 3s, 6s, 12s, ... capped at one hour;
//   - other API errors are retried immediately;
//   - anything that is not a Bot API error propagates untouched.
//
// Each call owns its retry state; concurrent calls through the same
// interceptor back off independently. A call gives up after MaxRetryAttempts
// retries and surfaces *RetryLimitExceededError.
//
//	ic := apiretry.New(apiretry.Config{MaxRetryAttempts: 5, Logger: log})
//	client := botapi.New(token, botapi.WithInterceptor(ic.Wrap))
package apiretry
