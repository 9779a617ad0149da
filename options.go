package httpcore

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*config)

type config struct {
	baseURL         string
	connectTimeout  time.Duration
	sendTimeout     time.Duration
	receiveTimeout  time.Duration
	defaultHeaders  http.Header
	followRedirects bool
	maxRedirects    int
	validateStatus  func(status int) bool
	maxRetries      int
	backoff         Backoff
	maxResponseSize int64
	rps             float64
	burst           int
	interceptors    []Interceptor
	observer        Observer
	transport       http.RoundTripper
}

const defaultUserAgent = "arcusvpn-mobile/1.0 httpcore"

func defaultConfig() *config {
	h := http.Header{}
	h.Set("User-Agent", defaultUserAgent)
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Encoding", "gzip, deflate")
	h.Set("Connection", "keep-alive")
	h.Set("X-Content-Type-Options", "nosniff")
	return &config{
		connectTimeout:  8 * time.Second,
		sendTimeout:     8 * time.Second,
		receiveTimeout:  10 * time.Second,
		defaultHeaders:  h,
		followRedirects: true,
		maxRedirects:    3,
		validateStatus:  func(status int) bool { return status < 500 },
		maxRetries:      1,
		backoff:         ConstantBackoff(300 * time.Millisecond),
		maxResponseSize: 10 * 1024 * 1024, // 10 MB
		rps:             0,                // no rate limiting by default
		burst:           1,
	}
}

// WithBaseURL sets the base URL prefix resolved against every descriptor
// path.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithTimeouts sets the connect, send, and receive timeouts. All three must
// be strictly positive.
func WithTimeouts(connect, send, receive time.Duration) Option {
	return func(c *config) {
		c.connectTimeout = connect
		c.sendTimeout = send
		c.receiveTimeout = receive
	}
}

// WithDefaultHeader sets a header sent on every request unless the
// descriptor overrides it.
func WithDefaultHeader(key, value string) Option {
	return func(c *config) { c.defaultHeaders.Set(key, value) }
}

// WithRedirectPolicy sets whether redirects are followed and the hop cap.
func WithRedirectPolicy(follow bool, maxHops int) Option {
	return func(c *config) {
		c.followRedirects = follow
		c.maxRedirects = maxHops
	}
}

// WithValidateStatus replaces the status validation predicate. Statuses the
// predicate accepts resolve as non-exceptional responses; rejected statuses
// become classified errors. The default accepts anything below 500.
func WithValidateStatus(fn func(status int) bool) Option {
	return func(c *config) { c.validateStatus = fn }
}

// WithMaxRetries sets how many times a retryable failure is re-attempted.
// The default is 1: at most two attempts per request.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.maxRetries = n }
}

// WithBackoff replaces the delay policy applied between attempts.
func WithBackoff(b Backoff) Option {
	return func(c *config) { c.backoff = b }
}

// WithMaxResponseSize sets the maximum buffered response body size in bytes.
// Stream-mode responses are not limited.
func WithMaxResponseSize(n int64) Option {
	return func(c *config) { c.maxResponseSize = n }
}

// WithRateLimit sets a token bucket gating every attempt, in requests per
// second and burst size. Zero rps disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) {
		c.rps = rps
		if burst > 0 {
			c.burst = burst
		}
	}
}

// WithInterceptors appends pipeline stages. Stages run in registration order
// around every attempt.
func WithInterceptors(stages ...Interceptor) Option {
	return func(c *config) { c.interceptors = append(c.interceptors, stages...) }
}

// WithObserver sets the hook receiving one timing observation per completed
// attempt.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithTransport replaces the underlying round tripper. Connect and receive
// timeouts built into the default transport do not apply to a custom one;
// the per-attempt deadline still does.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) { c.transport = rt }
}
