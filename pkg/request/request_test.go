package request_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fluenthttp/go-client/pkg/request"
)

// nopSender counts Send calls, no I/O is performed.
type nopSender struct {
	calls int
}

func (s *nopSender) Send(ctx context.Context, reqDef request.HTTPRequest) (*http.Response, error) {
	s.calls++
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
}

func TestNewHTTPRequest_Defaults(t *testing.T) {
	t.Parallel()
	r := request.NewHTTPRequest("https://example.com/base", &nopSender{})
	assert.Equal(t, http.MethodGet, r.Method())
	assert.Equal(t, "https://example.com/base", r.Target())
	assert.Empty(t, r.RequestHeader())
	assert.Empty(t, r.PathSegments())
	assert.Empty(t, r.QueryParams())
	assert.False(t, r.RequestBody().IsPresent())
}

func TestNewHTTPRequest_Panics(t *testing.T) {
	t.Parallel()
	assert.PanicsWithError(t, `invalid argument "sender": must not be nil`, func() {
		request.NewHTTPRequest("https://example.com", nil)
	})
	assert.PanicsWithError(t, `invalid argument "target": must not be empty`, func() {
		request.NewHTTPRequest("  ", &nopSender{})
	})
}

func TestHTTPRequest_Immutability(t *testing.T) {
	t.Parallel()
	var a, b request.HTTPRequest
	a = request.NewHTTPRequest("https://example.com", &nopSender{})

	// Method
	a = a.WithPost()
	b = a.WithPut()
	assert.Equal(t, http.MethodPost, a.Method())
	assert.Equal(t, http.MethodPut, b.Method())

	// Header
	a = a.AndHeader("X-Foo", "1")
	b = a.AndHeader("X-Foo", "2")
	assert.Equal(t, "1", a.RequestHeader().Get("X-Foo"))
	assert.Equal(t, "2", b.RequestHeader().Get("X-Foo"))

	// Path segments
	a = a.AndPathSegment("foo1")
	b = a.AndPathSegment("foo2")
	assert.Equal(t, []string{"foo1"}, a.PathSegments())
	assert.Equal(t, []string{"foo1", "foo2"}, b.PathSegments())

	// Query params
	a = a.AndQueryParam("q", "1")
	b = a.AndQueryParam("q", "2")
	assert.Equal(t, []request.QueryParam{{Name: "q", Value: "1"}}, a.QueryParams())
	assert.Equal(t, []request.QueryParam{{Name: "q", Value: "1"}, {Name: "q", Value: "2"}}, b.QueryParams())

	// Body
	a = a.WithTextBody("a")
	b = a.WithJSONBody(map[string]any{"foo": "bar"})
	assert.Equal(t, request.BodyText, a.RequestBody().Kind())
	assert.Equal(t, request.BodyJSON, b.RequestBody().Kind())
}

func TestHTTPRequest_Methods(t *testing.T) {
	t.Parallel()
	r := request.NewHTTPRequest("https://example.com", &nopSender{})
	assert.Equal(t, http.MethodGet, r.WithGet().Method())
	assert.Equal(t, http.MethodPost, r.WithPost().Method())
	assert.Equal(t, http.MethodPut, r.WithPut().Method())
	assert.Equal(t, http.MethodPatch, r.WithPatch().Method())
	assert.Equal(t, http.MethodDelete, r.WithDelete().Method())
	assert.Equal(t, http.MethodTrace, r.WithTrace().Method())
	assert.Equal(t, http.MethodHead, r.WithHead().Method())
	assert.Equal(t, http.MethodOptions, r.WithOptions().Method())
}

func TestHTTPRequest_AndHeader(t *testing.T) {
	t.Parallel()
	r := request.NewHTTPRequest("https://example.com", &nopSender{})

	// Last write wins
	r = r.AndHeader("X-Foo", "1").AndHeader("X-Foo", "2")
	assert.Equal(t, "2", r.RequestHeader().Get("X-Foo"))
	assert.Len(t, r.RequestHeader().Values("X-Foo"), 1)

	// Names are matched case-insensitively
	r = r.AndHeader("x-foo", "3")
	assert.Equal(t, "3", r.RequestHeader().Get("X-Foo"))
	assert.Len(t, r.RequestHeader().Values("X-Foo"), 1)

	// Empty name
	assert.PanicsWithError(t, `invalid argument "name": header name must not be empty`, func() {
		r.AndHeader("", "value")
	})
}

func TestHTTPRequest_WithBearerAuth(t *testing.T) {
	t.Parallel()
	r := request.NewHTTPRequest("https://example.com", &nopSender{})
	assert.Equal(t, "Bearer my-token", r.WithBearerAuth("my-token").RequestHeader().Get("Authorization"))

	// The prefix is never doubled
	assert.Equal(t, "Bearer my-token", r.WithBearerAuth("Bearer my-token").RequestHeader().Get("Authorization"))
}

func TestHTTPRequest_Accept(t *testing.T) {
	t.Parallel()
	r := request.NewHTTPRequest("https://example.com", &nopSender{})

	// AndAccept accumulates
	assert.Equal(t, "application/json,text/html", r.AndAcceptJSON().AndAcceptHTML().RequestHeader().Get("Accept"))
	assert.Equal(t, "application/xml,text/plain", r.AndAcceptXML().AndAcceptPlainText().RequestHeader().Get("Accept"))

	// WithAccept replaces
	assert.Equal(t, "text/html", r.AndAcceptJSON().WithAccept("text/html").RequestHeader().Get("Accept"))
}

func TestHTTPRequest_QueryParamsOrder(t *testing.T) {
	t.Parallel()
	r := request.NewHTTPRequest("https://example.com", &nopSender{}).
		AndQueryParam("b", "2").
		AndQueryParam("a", "1").
		AndQueryParam("b", "3")

	// Insertion order is kept, duplicates are not merged
	assert.Equal(t, []request.QueryParam{
		{Name: "b", Value: "2"},
		{Name: "a", Value: "1"},
		{Name: "b", Value: "3"},
	}, r.QueryParams())
}

func TestHTTPRequest_ConfigurationDoesNotSend(t *testing.T) {
	t.Parallel()
	sender := &nopSender{}
	r := request.NewHTTPRequest("https://example.com", sender).
		WithPost().
		AndPathSegment("foo").
		AndQueryParam("q", "1").
		WithBearerAuth("token").
		WithJSONBody(map[string]any{"foo": "bar"})
	assert.Equal(t, 0, sender.calls)

	// I/O happens only in a terminal action
	assert.NoError(t, r.EnsureSuccess(context.Background()))
	assert.Equal(t, 1, sender.calls)
}
