// Package httputil provides request pacing and retry helpers for the game
// service client.
//
// # Retry
//
// [Retry] re-runs an operation when it fails with an error wrapped by
// [Retryable]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses (honoring Retry-After)
//
// The delay doubles after every failed attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// # Pacing
//
// [Pacer] keeps successive calls at least a fixed interval apart. The play
// loop uses it to stay under the game service's turn rate.
//
// Both helpers stop early when their context is cancelled.
package httputil
