package app

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeedHTTPClient_Config(t *testing.T) {
	c := newFeedHTTPClient()
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok, "expected http.Transport")
	assert.NotZero(t, tr.ResponseHeaderTimeout)
	assert.NotZero(t, tr.TLSHandshakeTimeout)
	// Ensure we didn't return the default client's transport
	assert.NotEqual(t, reflect.ValueOf(http.DefaultTransport).Pointer(), reflect.ValueOf(tr).Pointer())
}
