package httpcore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"
	"time"
)

// attemptPhase tracks how far an attempt progressed, so a timeout can be
// attributed to the connect, send, or receive phase.
type attemptPhase int32

const (
	phaseConnect attemptPhase = iota
	phaseSend
	phaseReceive
)

// withPhaseTrace wires an httptrace into ctx that records the phase the
// attempt has reached.
func withPhaseTrace(ctx context.Context) (context.Context, *int32) {
	phase := new(int32)
	trace := &httptrace.ClientTrace{
		GotConn: func(httptrace.GotConnInfo) {
			atomic.StoreInt32(phase, int32(phaseSend))
		},
		WroteRequest: func(httptrace.WroteRequestInfo) {
			atomic.StoreInt32(phase, int32(phaseReceive))
		},
	}
	return httptrace.WithClientTrace(ctx, trace), phase
}

// classifyTransport converts a transport error into a classified *Error.
// Cancellation is reported as the caller's doing, not a network fault;
// timeouts map to the phase the attempt had reached; everything else is a
// connection failure.
func classifyTransport(err error, phase attemptPhase) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCancelled, Cause: err}
	}
	var nerr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &nerr) && nerr.Timeout())
	if timeout {
		switch phase {
		case phaseConnect:
			return &Error{Kind: KindConnectTimeout, Cause: err}
		case phaseSend:
			return &Error{Kind: KindSendTimeout, Cause: err}
		default:
			return &Error{Kind: KindReceiveTimeout, Cause: err}
		}
	}
	return &Error{Kind: KindConnectionFailure, Cause: err}
}

// newTransport builds the pooled transport for a client. The dialer enforces
// the connect timeout; the response-header timeout enforces the receive
// deadline on the wire.
func newTransport(cfg *config) *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: cfg.receiveTimeout,
		TLSHandshakeTimeout:   cfg.connectTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		// The default Connection header is hop-by-hop and HTTP/2 rejects it,
		// so the pool stays on HTTP/1.1 keep-alive.
		ForceAttemptHTTP2: false,
	}
}

// checkRedirect implements the configured redirect policy.
func checkRedirect(cfg *config) func(*http.Request, []*http.Request) error {
	if !cfg.followRedirects {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	max := cfg.maxRedirects
	return func(req *http.Request, via []*http.Request) error {
		if len(via) > max {
			return fmt.Errorf("stopped after %d redirects", max)
		}
		return nil
	}
}
