package httpcore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Response is a resolved, non-exceptional outcome. Whether a status counts
// as non-exceptional is decided by the client's validation predicate; with
// the default predicate a 4xx lands here and the caller inspects it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte        // nil in stream mode
	Stream     io.ReadCloser // set only in stream mode; the caller closes it

	// Elapsed is cumulative from the original request start, covering every
	// attempt and backoff wait. Inside the pipeline it is per-attempt; Do
	// restamps it before returning.
	Elapsed time.Duration
}

// JSON decodes the buffered body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("httpcore: unmarshal response: %w", err)
	}
	return nil
}

// Observation describes one completed attempt, for telemetry consumers. The
// client only emits the measurement; what to do with it is the consumer's
// business.
type Observation struct {
	Method  string
	Path    string
	Attempt int // 1-based
	Status  int // 0 when the attempt failed before a response arrived
	Elapsed time.Duration
	Err     error // nil on a validated response
}

// Observer receives one Observation per completed attempt.
type Observer func(Observation)

// Stats holds atomic request counters.
type Stats struct {
	TotalRequests  uint64
	FailedAttempts uint64
	Retries        uint64
}

// Client is a resilient HTTP client: per-attempt instrumentation, failure
// classification, and bounded retry with backoff over a shared connection
// pool. Config is immutable per instance; reconfigure by building a new
// client (or Reset on the shared one).
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        *config
	handler    Handler

	totalReqs      atomic.Uint64
	failedAttempts atomic.Uint64
	retries        atomic.Uint64
}

// New creates a Client with the given options. It panics on config values
// that violate the invariants (non-positive timeouts, negative redirect or
// retry caps): those are programmer errors, not runtime failures.
func New(opts ...Option) *Client {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	if cfg.connectTimeout <= 0 || cfg.sendTimeout <= 0 || cfg.receiveTimeout <= 0 {
		panic("httpcore: timeouts must be strictly positive")
	}
	if cfg.maxRedirects < 0 {
		panic("httpcore: max redirects must be >= 0")
	}
	if cfg.maxRetries < 0 {
		panic("httpcore: max retries must be >= 0")
	}

	rt := cfg.transport
	if rt == nil {
		rt = newTransport(cfg)
	}

	var lim *rate.Limiter
	if cfg.rps > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.rps), cfg.burst)
	}

	c := &Client{
		httpClient: &http.Client{
			Transport:     rt,
			CheckRedirect: checkRedirect(cfg),
		},
		limiter: lim,
		cfg:     cfg,
	}
	c.handler = chain(c.roundTrip, cfg.interceptors)
	return c
}

// Close releases pooled connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Stats returns a snapshot of request statistics.
func (c *Client) Stats() Stats {
	return Stats{
		TotalRequests:  c.totalReqs.Load(),
		FailedAttempts: c.failedAttempts.Load(),
		Retries:        c.retries.Load(),
	}
}

// Do executes the descriptor through the interceptor pipeline. A failed
// attempt is classified; a Retryable verdict earns a backoff wait and one
// more attempt per the retry cap (default 1), and the final attempt's
// outcome is returned unconditionally. Cancellation during the call or the
// backoff wait resolves as a terminal Cancelled failure with no further
// attempt.
func (c *Client) Do(ctx context.Context, d *Descriptor) (*Response, error) {
	c.totalReqs.Add(1)
	start := time.Now()

	for attempt := 1; ; attempt++ {
		if err := c.waitRateLimit(ctx); err != nil {
			return nil, withElapsed(err, start)
		}

		resp, err := c.attempt(ctx, d, attempt)
		if err == nil {
			resp.Elapsed = time.Since(start)
			return resp, nil
		}
		c.failedAttempts.Add(1)

		if attempt > c.cfg.maxRetries {
			return nil, withElapsed(err, start)
		}
		if Classify(err) != Retryable {
			return nil, withElapsed(err, start)
		}
		if err := c.sleep(ctx, c.cfg.backoff(attempt)); err != nil {
			return nil, withElapsed(err, start)
		}
		c.retries.Add(1)
	}
}

// withElapsed stamps the cumulative elapsed time on a classified failure.
func withElapsed(err error, start time.Time) error {
	var e *Error
	if errors.As(err, &e) {
		e.Elapsed = time.Since(start)
	}
	return err
}

// Get executes a GET request for path.
func (c *Client) Get(ctx context.Context, path string, opts ...DescriptorOption) (*Response, error) {
	d, err := NewDescriptor(http.MethodGet, path, opts...)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, d)
}

// Post executes a POST request for path with the given body.
func (c *Client) Post(ctx context.Context, path, contentType string, body []byte, opts ...DescriptorOption) (*Response, error) {
	opts = append([]DescriptorOption{Body(body), Header("Content-Type", contentType)}, opts...)
	d, err := NewDescriptor(http.MethodPost, path, opts...)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, d)
}

// DoJSON marshals reqBody as JSON, executes the request, and unmarshals the
// response into respBody. It returns the HTTP status code alongside any
// error.
func (c *Client) DoJSON(ctx context.Context, method, path string, reqBody, respBody any) (int, error) {
	opts := []DescriptorOption{Mode(ResponseJSON)}
	if reqBody != nil {
		opts = append(opts, JSONBody(reqBody))
	}
	d, err := NewDescriptor(method, path, opts...)
	if err != nil {
		return 0, err
	}

	resp, err := c.Do(ctx, d)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return e.Status, err
		}
		return 0, err
	}

	if respBody != nil && len(resp.Body) > 0 {
		if err := resp.JSON(respBody); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// --- internal ---

// attempt runs the composed pipeline once and emits the timing observation.
func (c *Client) attempt(ctx context.Context, d *Descriptor, n int) (*Response, error) {
	rc := &RequestContext{
		Descriptor: d,
		Attempt:    n,
		Start:      time.Now(),
		Header:     http.Header{},
	}

	resp, err := c.handler(ctx, rc)

	if c.cfg.observer != nil {
		obs := Observation{
			Method:  d.Method(),
			Path:    d.Path(),
			Attempt: n,
			Elapsed: time.Since(rc.Start),
			Err:     err,
		}
		if resp != nil {
			obs.Status = resp.StatusCode
		} else {
			var e *Error
			if errors.As(err, &e) {
				obs.Status = e.Status
			}
		}
		c.cfg.observer(obs)
	}
	return resp, err
}

// roundTrip is the innermost pipeline stage: it executes one attempt against
// the transport under the send+receive deadline and classifies the result.
func (c *Client) roundTrip(ctx context.Context, rc *RequestContext) (*Response, error) {
	d := rc.Descriptor

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.sendTimeout+c.cfg.receiveTimeout)
	traceCtx, phase := withPhaseTrace(attemptCtx)

	req, err := c.buildRequest(traceCtx, rc)
	if err != nil {
		cancel()
		return nil, &Error{Kind: KindMalformedRequest, Cause: err}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, classifyTransport(err, attemptPhase(atomic.LoadInt32(phase)))
	}

	if !c.cfg.validateStatus(httpResp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, c.cfg.maxResponseSize))
		httpResp.Body.Close()
		cancel()
		return nil, &Error{
			Kind:   statusKind(httpResp.StatusCode),
			Status: httpResp.StatusCode,
			Cause:  fmt.Errorf("%s %s: %s", d.Method(), d.Path(), bytes.TrimSpace(body)),
		}
	}

	if d.Mode() == ResponseStream {
		// The deadline stays armed until the caller closes the stream.
		return &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Stream:     &cancelCloser{body: httpResp.Body, cancel: cancel},
			Elapsed:    time.Since(rc.Start),
		}, nil
	}

	body, rerr := io.ReadAll(io.LimitReader(httpResp.Body, c.cfg.maxResponseSize))
	httpResp.Body.Close()
	cancel()
	if rerr != nil {
		return nil, classifyTransport(rerr, phaseReceive)
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		Elapsed:    time.Since(rc.Start),
	}, nil
}

// buildRequest materializes the descriptor into an *http.Request. Header
// precedence, lowest to highest: client defaults, descriptor headers,
// per-attempt overlay.
func (c *Client) buildRequest(ctx context.Context, rc *RequestContext) (*http.Request, error) {
	d := rc.Descriptor

	var body io.Reader
	if b := d.BodyBytes(); b != nil {
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method(), c.cfg.baseURL+d.Path(), body)
	if err != nil {
		return nil, err
	}

	if q := d.QueryValues(); len(q) > 0 {
		merged := req.URL.Query()
		for k, vs := range q {
			for _, v := range vs {
				merged.Add(k, v)
			}
		}
		req.URL.RawQuery = merged.Encode()
	}

	for k, vs := range c.cfg.defaultHeaders {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range d.Headers() {
		req.Header[k] = vs
	}
	for k, vs := range rc.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	return req, nil
}

// sleep waits out the backoff delay, resolving early as Cancelled when the
// caller gives up.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return &Error{Kind: KindCancelled, Cause: ctx.Err()}
	case <-t.C:
		return nil
	}
}

func (c *Client) waitRateLimit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	err := c.limiter.Wait(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindCancelled, Cause: err}
	default:
		// Deadline expiry, or a wait that cannot finish inside it: the
		// request timed out before a connection was even attempted.
		return &Error{Kind: KindConnectTimeout, Cause: err}
	}
}

// cancelCloser ties the attempt deadline to the stream's lifetime.
type cancelCloser struct {
	body   io.ReadCloser
	cancel context.CancelFunc
}

func (s *cancelCloser) Read(p []byte) (int, error) { return s.body.Read(p) }

func (s *cancelCloser) Close() error {
	err := s.body.Close()
	s.cancel()
	return err
}
