package httpcore

import "sync"

// The shared client is the one sanctioned piece of process-wide state: the
// underlying connection pool is too expensive to rebuild per call. Everything
// else in the package is instance-scoped.
var (
	sharedMu     sync.Mutex
	sharedOpts   []Option
	sharedClient *Client
)

// Configure replaces the options used to construct the shared client. It
// affects the next construction only: call it before the first Shared, or
// follow it with Reset to rebuild a live instance. Interceptors registered
// here join the pipeline of the next-built instance.
func Configure(opts ...Option) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	sharedOpts = opts
}

// Shared returns the process-wide client, constructing it under the current
// options on first access. Concurrent first access constructs exactly one
// instance.
func Shared() *Client {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedClient == nil {
		sharedClient = New(sharedOpts...)
	}
	return sharedClient
}

// Reset releases the shared client's pooled connections and clears the
// reference, so the next Shared call rebuilds from the latest options. No-op
// when no instance exists.
func Reset() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedClient != nil {
		sharedClient.Close()
		sharedClient = nil
	}
}
