// Package fetch provides a bounded-retry HTTP request executor with
// per-attempt deadlines and exponential backoff.
//
// Retries
//   - Controlled per call via RetryPolicy: total attempts = MaxRetries + 1.
//   - Retries occur only on transport failures:
//   - Timeouts (per-attempt deadline exceeded or net.Error timeout)
//   - Network failures (DNS, connection refused, TLS, reset)
//   - Any received HTTP response ends the loop as success, including
//     4xx and 5xx. Status interpretation belongs to the caller.
//
// Backoff Strategy
//   - Exponential: the delay before attempt k is BackoffBase * 2^(k-2);
//     attempt 1 starts immediately.
//   - Known limitation: delays are neither jittered nor capped, so
//     concurrent executions against one target can retry in lockstep
//     and large retry counts produce very long waits. Keep MaxRetries
//     small or cancel through the context.
//
// Cancellation
//   - Each attempt runs under its own deadline of RequestSpec.Timeout;
//     expiry aborts the in-flight call and frees its connection.
//   - The caller's context ending aborts the current attempt and any
//     pending backoff, and surfaces as a cancelled error rather than
//     an exhausted one.
//
// Notes
//   - Request bodies are re-sent by rebuilding the http.Request on each
//     attempt, and are attached only for POST, PUT and PATCH.
//   - A response declaring application/json is decoded into
//     Result.Payload; a malformed declared payload sets Result.ParseErr
//     and is never retried, since the transport already succeeded.
package fetch
