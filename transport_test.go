package httpcore

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyTransportTimeoutsByPhase(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "http://x", Err: timeoutError{}}

	assert.Equal(t, KindConnectTimeout, classifyTransport(err, phaseConnect).Kind)
	assert.Equal(t, KindSendTimeout, classifyTransport(err, phaseSend).Kind)
	assert.Equal(t, KindReceiveTimeout, classifyTransport(err, phaseReceive).Kind)
}

func TestClassifyTransportDeadline(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}
	assert.Equal(t, KindReceiveTimeout, classifyTransport(err, phaseReceive).Kind)
}

func TestClassifyTransportCancelled(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "http://x", Err: context.Canceled}
	assert.Equal(t, KindCancelled, classifyTransport(err, phaseSend).Kind)
}

func TestClassifyTransportConnectionFailure(t *testing.T) {
	err := errors.New("connection refused")
	assert.Equal(t, KindConnectionFailure, classifyTransport(err, phaseConnect).Kind)
}

func TestCheckRedirectCap(t *testing.T) {
	cfg := defaultConfig()
	check := checkRedirect(cfg)

	via := make([]*http.Request, 3)
	assert.NoError(t, check(nil, via))

	via = make([]*http.Request, 4)
	assert.Error(t, check(nil, via))
}

func TestCheckRedirectDisabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.followRedirects = false
	check := checkRedirect(cfg)
	assert.ErrorIs(t, check(nil, nil), http.ErrUseLastResponse)
}
