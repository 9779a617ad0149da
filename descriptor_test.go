package httpcore

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDescriptorValidation(t *testing.T) {
	_, err := NewDescriptor("FETCH", "/x")
	require.Error(t, err)
	assert.Equal(t, KindMalformedRequest, KindOf(err))

	_, err = NewDescriptor(http.MethodGet, "")
	require.Error(t, err)
	assert.Equal(t, KindMalformedRequest, KindOf(err))
}

func TestDescriptorFields(t *testing.T) {
	d, err := NewDescriptor(http.MethodPost, "/submit",
		Query("page", "2"),
		Header("X-Trace", "abc"),
		Body([]byte("payload")),
		Mode(ResponseStream),
	)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, d.Method())
	assert.Equal(t, "/submit", d.Path())
	assert.Equal(t, "2", d.QueryValues().Get("page"))
	assert.Equal(t, "abc", d.Headers().Get("X-Trace"))
	assert.Equal(t, []byte("payload"), d.BodyBytes())
	assert.Equal(t, ResponseStream, d.Mode())
}

func TestDescriptorJSONBody(t *testing.T) {
	d, err := NewDescriptor(http.MethodPut, "/v1/prefs", JSONBody(map[string]int{"theme": 2}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":2}`, string(d.BodyBytes()))
	assert.Equal(t, "application/json", d.Headers().Get("Content-Type"))

	_, err = NewDescriptor(http.MethodPut, "/v1/prefs", JSONBody(make(chan int)))
	require.Error(t, err)
	assert.Equal(t, KindMalformedRequest, KindOf(err))
}

func TestDescriptorImmutableAccessors(t *testing.T) {
	d, err := NewDescriptor(http.MethodGet, "/x", Query("a", "1"), Header("X-A", "1"))
	require.NoError(t, err)

	d.QueryValues().Set("a", "2")
	d.Headers().Set("X-A", "2")

	assert.Equal(t, "1", d.QueryValues().Get("a"))
	assert.Equal(t, "1", d.Headers().Get("X-A"))
}
