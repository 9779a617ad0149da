package httpcore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatusBoundaries(t *testing.T) {
	for _, code := range []int{500, 501, 502, 503, 599} {
		assert.Equal(t, Retryable, ClassifyStatus(code), "status %d", code)
	}
	for _, code := range []int{400, 404, 499} {
		assert.Equal(t, Terminal, ClassifyStatus(code), "status %d", code)
	}
}

func TestClassifyKinds(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want Verdict
	}{
		{KindConnectTimeout, Retryable},
		{KindSendTimeout, Retryable},
		{KindReceiveTimeout, Retryable},
		{KindServerError, Retryable},
		{KindConnectionFailure, Terminal},
		{KindClientError, Terminal},
		{KindCancelled, Terminal},
		{KindMalformedRequest, Terminal},
	}
	for _, tc := range cases {
		got := Classify(&Error{Kind: tc.kind})
		assert.Equal(t, tc.want, got, "kind %s", tc.kind)
	}
}

func TestClassifyWrappedError(t *testing.T) {
	err := fmt.Errorf("attempt 1: %w", &Error{Kind: KindReceiveTimeout})
	assert.Equal(t, Retryable, Classify(err))
}

func TestClassifyUnclassifiedError(t *testing.T) {
	assert.Equal(t, Terminal, Classify(errors.New("something else")))
	assert.Equal(t, Terminal, Classify(nil))
}

func TestErrorMessage(t *testing.T) {
	e := &Error{Kind: KindServerError, Status: 503}
	assert.Equal(t, "httpcore: server error: HTTP 503", e.Error())

	cause := errors.New("dial tcp: i/o timeout")
	e = &Error{Kind: KindConnectTimeout, Cause: cause}
	assert.Contains(t, e.Error(), "connect timeout")
	assert.ErrorIs(t, e, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindCancelled, KindOf(&Error{Kind: KindCancelled}))
	assert.Equal(t, KindConnectionFailure, KindOf(errors.New("opaque")))
}
