package httpcore

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// RequestContext is the per-attempt state threaded through the interceptor
// pipeline. It is owned by the in-flight attempt and discarded when the
// attempt resolves.
type RequestContext struct {
	Descriptor *Descriptor
	Attempt    int       // 1-based
	Start      time.Time // stamped by the client when the attempt begins

	// Header is a per-attempt overlay applied on top of the client defaults
	// and the descriptor headers. Interceptors mutate outgoing metadata here;
	// the descriptor itself stays immutable.
	Header http.Header
}

// Handler executes one attempt and resolves it exactly once, by returning.
type Handler func(ctx context.Context, rc *RequestContext) (*Response, error)

// Interceptor wraps a Handler. Stages run in registration order around each
// attempt; returning without calling next short-circuits the attempt with a
// synthesized response or error. The function calling convention enforces the
// resolve-exactly-once contract.
type Interceptor func(next Handler) Handler

// chain composes interceptors around core so that the first registered stage
// is the outermost.
func chain(core Handler, stages []Interceptor) Handler {
	h := core
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i](h)
	}
	return h
}

// RequestID stamps every attempt with a fresh X-Request-ID header so retries
// are distinguishable in server logs.
func RequestID() Interceptor {
	return func(next Handler) Handler {
		return func(ctx context.Context, rc *RequestContext) (*Response, error) {
			rc.Header.Set("X-Request-ID", uuid.NewString())
			return next(ctx, rc)
		}
	}
}

// Logging emits one structured log line per completed attempt.
func Logging(l *log.Logger) Interceptor {
	return func(next Handler) Handler {
		return func(ctx context.Context, rc *RequestContext) (*Response, error) {
			resp, err := next(ctx, rc)
			elapsed := time.Since(rc.Start)
			if err != nil {
				l.Error("request failed",
					"method", rc.Descriptor.Method(),
					"path", rc.Descriptor.Path(),
					"attempt", rc.Attempt,
					"elapsed", elapsed,
					"err", err,
				)
				return nil, err
			}
			l.Debug("request done",
				"method", rc.Descriptor.Method(),
				"path", rc.Descriptor.Path(),
				"attempt", rc.Attempt,
				"status", resp.StatusCode,
				"elapsed", elapsed,
			)
			return resp, nil
		}
	}
}
