// Package httpcore is the outbound HTTP core of the Arcus VPN mobile client:
// request lifecycle instrumentation, failure classification, and bounded
// retry with backoff over a shared connection pool.
//
// It wraps the standard net/http client and adds:
//   - Immutable request descriptors with per-descriptor response modes
//   - Per-phase timeout attribution (connect, send, receive)
//   - A total error classifier: timeouts and 5xx are retryable, everything
//     else is terminal
//   - At most one retry per request by default, with a configurable cap and
//     pluggable backoff
//   - A composable interceptor pipeline running around every attempt
//   - One timing observation per completed attempt for telemetry consumers
//   - A lazily constructed process-wide shared instance with explicit reset
//   - Optional token-bucket rate limiting (golang.org/x/time/rate)
//
// Configuration uses the functional options pattern:
//
//	client := httpcore.New(
//	    httpcore.WithBaseURL("https://api.example.com"),
//	    httpcore.WithTimeouts(8*time.Second, 8*time.Second, 10*time.Second),
//	    httpcore.WithInterceptors(httpcore.RequestID()),
//	)
//	defer client.Close()
//
//	resp, err := client.Get(ctx, "/status")
//
// Or through the shared instance:
//
//	httpcore.Configure(httpcore.WithBaseURL("https://api.example.com"))
//	resp, err := httpcore.Shared().Get(ctx, "/status")
package httpcore
