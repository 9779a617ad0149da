package httpcore

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the classified cause of a failed request.
type ErrorKind int

const (
	// KindConnectTimeout means the connection was not established in time.
	KindConnectTimeout ErrorKind = iota
	// KindSendTimeout means the request was not fully written in time.
	KindSendTimeout
	// KindReceiveTimeout means the response did not arrive in time.
	KindReceiveTimeout
	// KindConnectionFailure is any non-timeout transport failure: refused,
	// reset, DNS failure.
	KindConnectionFailure
	// KindServerError is a response with status >= 500.
	KindServerError
	// KindClientError is a response the status validator rejected with
	// status < 500.
	KindClientError
	// KindCancelled means the caller aborted the request.
	KindCancelled
	// KindMalformedRequest means the descriptor failed validation before
	// dispatch.
	KindMalformedRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectTimeout:
		return "connect timeout"
	case KindSendTimeout:
		return "send timeout"
	case KindReceiveTimeout:
		return "receive timeout"
	case KindConnectionFailure:
		return "connection failure"
	case KindServerError:
		return "server error"
	case KindClientError:
		return "client error"
	case KindCancelled:
		return "cancelled"
	case KindMalformedRequest:
		return "malformed request"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error is a classified request failure.
type Error struct {
	Kind    ErrorKind
	Status  int           // HTTP status for ServerError/ClientError, 0 otherwise
	Elapsed time.Duration // cumulative time from the original request start
	Cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("httpcore: %s: HTTP %d", e.Kind, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("httpcore: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("httpcore: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf extracts the ErrorKind from err. Unclassified errors report
// KindConnectionFailure.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindConnectionFailure
}

// Verdict is the classifier decision governing whether a failed attempt is
// re-issued.
type Verdict int

const (
	// Terminal failures are surfaced to the caller as-is.
	Terminal Verdict = iota
	// Retryable failures are presumed transient and eligible for one more
	// attempt.
	Retryable
)

func (v Verdict) String() string {
	if v == Retryable {
		return "retryable"
	}
	return "terminal"
}

// Classify maps a failed attempt to a retry verdict. Timeouts and 5xx
// responses are presumed transient; everything else, including connection
// failures and 4xx responses, will fail identically on retry and must not be
// re-sent. Total and pure: no I/O, never panics.
func Classify(err error) Verdict {
	var e *Error
	if !errors.As(err, &e) {
		return Terminal
	}
	switch e.Kind {
	case KindConnectTimeout, KindSendTimeout, KindReceiveTimeout, KindServerError:
		return Retryable
	default:
		return Terminal
	}
}

// ClassifyStatus maps an HTTP status code to a retry verdict: 500 and above
// is Retryable, everything below is Terminal.
func ClassifyStatus(code int) Verdict {
	if code >= 500 {
		return Retryable
	}
	return Terminal
}

// statusKind picks the error kind for a response the status validator
// rejected.
func statusKind(code int) ErrorKind {
	if code >= 500 {
		return KindServerError
	}
	return KindClientError
}
