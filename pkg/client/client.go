// Package client provides a configurable implementation of the request.Sender
// interface, based on the standard net/http package.
//
// The Client owns the send pipeline: it assembles the final URL from the
// descriptor's target, path segments and query parameters, copies the
// headers, materializes the deferred body and dispatches the wire request
// through an injected http.RoundTripper, with retry and trace support.
//
// A single Client is safe for concurrent use and is typically shared across
// many request descriptors, see the NewRequest function.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fluenthttp/go-client/pkg/client/counter"
	"github.com/fluenthttp/go-client/pkg/client/decode"
	"github.com/fluenthttp/go-client/pkg/client/trace"
	"github.com/fluenthttp/go-client/pkg/request"
)

const defaultUserAgent = "fluenthttp-go-client"

// Client is a default and configurable implementation of the request.Sender interface.
// It supports retry and tracing, the With* methods return modified clones.
type Client struct {
	transport http.RoundTripper
	baseURL   *url.URL
	header    http.Header
	retry     RetryConfig
	tracers   []trace.Factory
}

// New creates a new Client with the default transport and retry configuration.
func New() Client {
	c := Client{transport: DefaultTransport(), header: make(http.Header), retry: DefaultRetry()}
	c.header.Set("User-Agent", defaultUserAgent)
	c.header.Set("Accept-Encoding", "gzip, br")
	return c
}

var defaultClient = sync.OnceValue(New) //nolint:gochecknoglobals

// Default returns the shared default Client used by NewRequest.
func Default() Client {
	return defaultClient()
}

// NewRequest creates a request descriptor for the target URL, dispatched by
// the shared default Client. Use request.NewHTTPRequest to inject a custom
// Client or Sender.
func NewRequest(target string) request.HTTPRequest {
	return request.NewHTTPRequest(target, Default())
}

// WithBaseURL returns a clone of the Client with the base URL set.
// Relative request targets are resolved against it at send time.
func (c Client) WithBaseURL(baseURLStr string) Client {
	baseURL, err := url.Parse(strings.TrimRight(baseURLStr, "/"))
	if err != nil {
		panic(fmt.Errorf(`base url "%s" is not valid: %w`, baseURLStr, err))
	}
	// Normalize the path, so baseURL.ResolveReference() will work
	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + "/"
	c.baseURL = baseURL
	return c
}

// WithUserAgent returns a clone of the Client with the User-Agent header set.
func (c Client) WithUserAgent(v string) Client {
	return c.WithHeader("User-Agent", v)
}

// WithHeader returns a clone of the Client with a default header set.
// Default headers are sent with every request unless the descriptor overrides them.
func (c Client) WithHeader(key, value string) Client {
	c.header = c.header.Clone()
	c.header.Set(key, value)
	return c
}

// WithHeaders returns a clone of the Client with default headers set.
func (c Client) WithHeaders(headers map[string]string) Client {
	c.header = c.header.Clone()
	for k, v := range headers {
		c.header.Set(k, v)
	}
	return c
}

// WithTransport returns a clone of the Client with the HTTP transport set.
func (c Client) WithTransport(transport http.RoundTripper) Client {
	if transport == nil || transport == http.RoundTripper(nil) {
		panic(fmt.Errorf("transport cannot be nil"))
	}
	c.transport = transport
	return c
}

// WithRetry returns a clone of the Client with the retry config set.
func (c Client) WithRetry(retry RetryConfig) Client {
	c.retry = retry
	return c
}

// AndTrace returns a clone of the Client with an additional trace factory.
// Hooks from all registered factories are composed.
func (c Client) AndTrace(fn trace.Factory) Client {
	c.tracers = append(c.tracers[:len(c.tracers):len(c.tracers)], fn)
	return c
}

// Send implements the request.Sender interface.
// It assembles the wire request from the descriptor, dispatches it and
// returns the raw response with the body wrapped for release tracking and
// content decoding. The caller must close the response body.
func (c Client) Send(ctx context.Context, reqDef request.HTTPRequest) (res *http.Response, err error) {
	// Method cannot be called on an empty value
	if c.transport == nil {
		panic(fmt.Errorf("client value is not initialized, use client.New()"))
	}

	// Init trace hooks
	var tc *trace.ClientTrace
	for _, factory := range c.tracers {
		var t *trace.ClientTrace
		ctx, t = factory(ctx, reqDef)
		if t != nil {
			t.Compose(tc)
			tc = t
		}
	}
	if tc != nil {
		ctx = httptrace.WithClientTrace(ctx, &tc.ClientTrace)
		defer func() {
			if tc.RequestProcessed != nil {
				tc.RequestProcessed(err)
			}
		}()
	}

	// Assemble the final URL
	reqURL := c.resolveURL(reqDef)

	// Create the wire request
	req, err := http.NewRequestWithContext(ctx, reqDef.Method(), reqURL.String(), nil)
	if err != nil {
		return nil, err
	}

	// Client default headers
	for k, values := range c.header {
		for _, v := range values {
			req.Header.Set(k, v)
		}
	}

	// Descriptor headers, they win over the defaults.
	// Collisions with transport managed headers are passed through raw.
	for k, values := range reqDef.RequestHeader() {
		req.Header.Del(k) // clear default values
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	// Materialize the body lazily.
	// The GetBody factory produces a fresh reader, so redirects and retries can rewind the body.
	if body := reqDef.RequestBody(); body.IsPresent() {
		req.GetBody = func() (io.ReadCloser, error) {
			content, err := body.Content()
			if err != nil {
				return nil, fmt.Errorf(`request %s "%s": cannot prepare request body: %w`, req.Method, req.URL.String(), err)
			}
			return content, nil
		}
		req.Body, err = req.GetBody()
		if err != nil {
			return nil, err
		}
		if req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", body.ContentType())
		}
	}

	// Wrapped transport adds trace and retry
	nativeClient := http.Client{
		Timeout:   c.retry.TotalRequestTimeout,
		Transport: roundTripper{retry: c.retry, trace: tc, wrapped: c.transport},
	}

	// Dispatch
	startedAt := time.Now()
	res, err = nativeClient.Do(req)
	if err != nil {
		return nil, handleSendError(startedAt, c.retry.TotalRequestTimeout, req, err)
	}

	// Make the release of the body observable, then decode the content encoding.
	// Close of the decoded body closes the whole chain.
	res.Body = counter.NewReadCloser(res.Body, func(bytes int64, closeErr error) {
		if tc != nil && tc.ResponseBodyClosed != nil {
			tc.ResponseBodyClosed(bytes, closeErr)
		}
	})
	decoded, err := decode.Decode(res.Body, res.Header.Get("Content-Encoding"))
	if err != nil {
		_ = res.Body.Close()
		return nil, fmt.Errorf(`cannot decode response of %s "%s": %w`, req.Method, req.URL.String(), err)
	}
	res.Body = decoded

	return res, nil
}

// resolveURL builds the final URL: base URL resolution, path segments in
// call order, then query pairs appended in insertion order to any query
// string already present in the target. Nothing is deduplicated or sorted.
func (c Client) resolveURL(reqDef request.HTTPRequest) *url.URL {
	u := reqDef.URL()
	if c.baseURL != nil && !u.IsAbs() {
		u.Path = strings.TrimLeft(u.Path, "/")
		u = c.baseURL.ResolveReference(u)
	}

	if segments := reqDef.PathSegments(); len(segments) > 0 {
		u = u.JoinPath(segments...)
	}

	if params := reqDef.QueryParams(); len(params) > 0 {
		var query strings.Builder
		query.WriteString(u.RawQuery)
		for _, p := range params {
			if query.Len() > 0 {
				query.WriteByte('&')
			}
			query.WriteString(url.QueryEscape(p.Name))
			query.WriteByte('=')
			query.WriteString(url.QueryEscape(p.Value))
		}
		u.RawQuery = query.String()
	}

	return u
}

func handleSendError(startedAt time.Time, clientTimeout time.Duration, req *http.Request, err error) error {
	// Timeout
	var netErr net.Error
	if deadline, ok := req.Context().Deadline(); ok && errors.Is(err, context.DeadlineExceeded) {
		err = urlError(req, fmt.Errorf("timeout after %s", deadline.Sub(startedAt)))
	} else if errors.Is(err, context.Canceled) {
		err = urlError(req, fmt.Errorf("canceled after %s", time.Since(startedAt)))
	} else if errors.As(err, &netErr) && netErr.Timeout() {
		if strings.Contains(err.Error(), "Client.Timeout exceeded") {
			err = urlError(req, fmt.Errorf("timeout after %s", clientTimeout))
		} else {
			err = urlError(req, fmt.Errorf("timeout after %s", time.Since(startedAt)))
		}
	}

	// Url error
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = fmt.Errorf(`request %s "%s" failed: %w`, strings.ToUpper(urlErr.Op), urlErr.URL, urlErr.Err)
	}

	return err
}

func urlError(req *http.Request, err error) *url.Error {
	return &url.Error{Op: req.Method, URL: req.URL.String(), Err: err}
}

// roundTripper wraps a http.RoundTripper and adds trace and retry functionality.
type roundTripper struct {
	trace   *trace.ClientTrace
	retry   RetryConfig
	wrapped http.RoundTripper
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	state := rt.retry.NewBackoff()
	attempt := 0
	for {
		// Trace request start
		if rt.trace != nil && rt.trace.HTTPRequestStart != nil {
			rt.trace.HTTPRequestStart(req)
		}

		// Send
		res, err := rt.wrapped.RoundTrip(req)

		// Trace request done
		if rt.trace != nil && rt.trace.HTTPRequestDone != nil {
			rt.trace.HTTPRequestDone(res, err)
		}

		// Check if we should retry
		if rt.retry.Condition == nil || !rt.retry.Condition(res, err) || attempt >= rt.retry.Count {
			return res, err
		}

		// Get next delay
		delay := state.NextBackOff()
		if delay == backoff.Stop {
			return res, err
		}

		// Trace retry
		attempt++
		if rt.trace != nil && rt.trace.HTTPRequestRetry != nil {
			rt.trace.HTTPRequestRetry(attempt, delay)
		}

		// Rewind body before retry
		if req.GetBody != nil {
			req.Body, err = req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("cannot rewind body: %w", err)
			}
		}

		// Wait
		select {
		case <-req.Context().Done():
			// context is canceled
			return nil, req.Context().Err()
		case <-time.NewTimer(delay).C:
			// time elapsed, retry
		}
	}
}
