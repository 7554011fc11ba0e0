package util

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProxyFunc_Explicit(t *testing.T) {
	proxy := NewProxyFunc("http://plain:3128", "http://secure:3129")

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	u, err := proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "secure:3129", u.Host)

	req, _ = http.NewRequest(http.MethodGet, "http://example.com", nil)
	u, err = proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "plain:3128", u.Host)
}

func TestNewProxyFunc_HTTPOnlyCoversHTTPS(t *testing.T) {
	proxy := NewProxyFunc("http://plain:3128", "")

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	u, err := proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "plain:3128", u.Host)
}
