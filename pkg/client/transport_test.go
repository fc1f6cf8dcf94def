package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluenthttp/go-client/pkg/client"
	"github.com/fluenthttp/go-client/pkg/request"
)

func TestDefaultTransport_Limits(t *testing.T) {
	t.Parallel()

	transport, ok := client.DefaultTransport().(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.ForceAttemptHTTP2)
	assert.Equal(t, client.TLSHandshakeTimeout, transport.TLSHandshakeTimeout)
	assert.Equal(t, client.ResponseHeaderTimeout, transport.ResponseHeaderTimeout)
	assert.Equal(t, client.IdleConnTimeout, transport.IdleConnTimeout)
	assert.Equal(t, client.MaxConnectionsPerHost, transport.MaxConnsPerHost)
	assert.Equal(t, client.MaxConnectionsPerHost, transport.MaxIdleConnsPerHost)
}

func TestDefaultTransport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	c := client.New().WithTransport(client.DefaultTransport())
	out, err := request.NewHTTPRequest(server.URL, c).ReadString(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "OK", out)
}

func TestHTTP2Transport(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := client.New().WithTransport(client.HTTP2Transport())
	out, err := request.NewHTTPRequest("https://www.google.com", c).ReadString(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, out)
}
