// Package httputil provides retry helpers shared by the registry clients.
//
// [Retry] re-runs an operation while it fails with a [RetryableError],
// doubling the delay after each attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// Registry clients classify failures at the HTTP boundary: network errors,
// 5xx responses and 429 rate limit responses are wrapped as retryable,
// everything else is returned as-is. A 429 carrying a Retry-After header
// sets [RetryableError.After] (see [RetryAfter]) so the next attempt waits
// as long as the registry asked.
package httputil
