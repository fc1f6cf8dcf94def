package client

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Limits shared by the transports below.
// A request as a whole is limited by RequestTimeout, see retry.go.
const (
	// DialTimeout limits establishing a new connection.
	DialTimeout = 3 * time.Second
	// KeepAlive is the interval between keep-alive probes on an idle connection.
	KeepAlive = 10 * time.Second
	// TLSHandshakeTimeout limits the TLS handshake on a new connection.
	TLSHandshakeTimeout = 5 * time.Second
	// ResponseHeaderTimeout limits waiting for the response headers, reading the body is not limited.
	ResponseHeaderTimeout = 20 * time.Second
	// IdleConnTimeout closes a pooled connection that has been idle for too long.
	IdleConnTimeout = 90 * time.Second
	// MaxConnectionsPerHost limits open and idle connections per host.
	MaxConnectionsPerHost = 32
	// HTTP2HealthCheckTimeout limits pings and writes on an HTTP2 connection, see HTTP2Transport.
	HTTP2HealthCheckTimeout = 3 * time.Second
)

// DefaultTransport is a pooled transport with the limits above.
// HTTP2 is used when the server supports the upgrade.
func DefaultTransport() http.RoundTripper {
	dialer := Dialer()
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ResponseHeaderTimeout: ResponseHeaderTimeout,
		IdleConnTimeout:       IdleConnTimeout,
		MaxConnsPerHost:       MaxConnectionsPerHost,
		MaxIdleConnsPerHost:   MaxConnectionsPerHost,
	}
}

// HTTP2Transport speaks HTTP2 only, without the upgrade step from HTTP1.
// Broken connections are detected by pings, see HTTP2HealthCheckTimeout.
func HTTP2Transport() http.RoundTripper {
	dialer := Dialer()
	return &http2.Transport{
		DialTLS: func(network, addr string, cfg *tls.Config) (net.Conn, error) {
			return tls.DialWithDialer(dialer, network, addr, cfg)
		},
		ReadIdleTimeout:  HTTP2HealthCheckTimeout,
		PingTimeout:      HTTP2HealthCheckTimeout,
		WriteByteTimeout: HTTP2HealthCheckTimeout,
	}
}

// Dialer used by both transports.
func Dialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   DialTimeout,
		KeepAlive: KeepAlive,
	}
}
