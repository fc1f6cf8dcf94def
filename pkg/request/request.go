// Package request provides fluent, immutable HTTP request descriptors,
// see the NewHTTPRequest function.
//
// A descriptor accumulates request intent: method, headers, path segments,
// query parameters and a deferred body. Configuration calls never perform
// network I/O, each call returns a derived copy, so partially configured
// requests can be shared and further specialized without aliasing issues.
//
// Network I/O happens only in a terminal action: EnsureSuccess, ReadString,
// ReadJSON or the generic ReadJSONAs function. A terminal action dispatches
// the descriptor through the injected Sender and releases the response body
// before it returns, on every exit path.
//
// The client.Client is the default implementation of the Sender interface,
// based on the standard net/http package.
package request

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Sender dispatches a fully configured request descriptor.
// The client.Client is a default implementation using the standard net/http package.
type Sender interface {
	// Send assembles the wire request from the descriptor and dispatches it.
	// The caller owns the returned response and must close its body.
	Send(ctx context.Context, request HTTPRequest) (*http.Response, error)
}

// Sendable is a request that can be sent and checked for success.
// It is implemented by HTTPRequest and used by the client.WaitGroup and client.RunGroup helpers.
type Sendable interface {
	EnsureSuccess(ctx context.Context) error
}

// QueryParam is one query string (name, value) pair.
// Pairs are kept in insertion order, duplicate names are legal and all instances are sent.
type QueryParam struct {
	Name  string
	Value string
}

// HTTPRequest is an immutable HTTP request descriptor.
// Configuration methods return a derived descriptor, terminal actions trigger the network I/O.
type HTTPRequest interface {
	httpRequestReadOnly
	// WithGet sets the GET method.
	WithGet() HTTPRequest
	// WithPost sets the POST method.
	WithPost() HTTPRequest
	// WithPut sets the PUT method.
	WithPut() HTTPRequest
	// WithPatch sets the PATCH method.
	WithPatch() HTTPRequest
	// WithDelete sets the DELETE method.
	WithDelete() HTTPRequest
	// WithTrace sets the TRACE method.
	WithTrace() HTTPRequest
	// WithHead sets the HEAD method.
	WithHead() HTTPRequest
	// WithOptions sets the OPTIONS method.
	WithOptions() HTTPRequest
	// AndHeader sets a single header field, overwriting a previous value of the same name.
	AndHeader(name, value string) HTTPRequest
	// WithBearerAuth sets the Authorization header to "Bearer <token>".
	// A "Bearer " prefix already present in the token is stripped first, so the prefix is never doubled.
	WithBearerAuth(token string) HTTPRequest
	// WithUserAgent sets the User-Agent header.
	WithUserAgent(value string) HTTPRequest
	// AndAccept appends the content type to the Accept header, joined by a comma with any previous value.
	AndAccept(contentType string) HTTPRequest
	// WithAccept sets the Accept header, replacing any previous value.
	WithAccept(contentType string) HTTPRequest
	// AndAcceptJSON is shortcut for AndAccept("application/json").
	AndAcceptJSON() HTTPRequest
	// AndAcceptXML is shortcut for AndAccept("application/xml").
	AndAcceptXML() HTTPRequest
	// AndAcceptPlainText is shortcut for AndAccept("text/plain").
	AndAcceptPlainText() HTTPRequest
	// AndAcceptHTML is shortcut for AndAccept("text/html").
	AndAcceptHTML() HTTPRequest
	// AndPathSegment appends one segment to the URL path. Segments are
	// appended in call order, the content is not validated or normalized.
	AndPathSegment(segment string) HTTPRequest
	// AndQueryParam appends one query string pair. Repeated names are not
	// merged, every call adds one pair to the final query string.
	AndQueryParam(name, value string) HTTPRequest
	// WithJSONBody sets the request body to the JSON serialization of the value.
	// Serialization is deferred to send time.
	WithJSONBody(body any) HTTPRequest
	// WithTextBody sets the request body to the literal string with the "text/plain" content type.
	WithTextBody(body string) HTTPRequest
	// WithTextBodyAs sets the request body to the literal string with a custom content type.
	WithTextBodyAs(body string, contentType string) HTTPRequest
	// WithFormBody sets the request body to the url-encoded form with the
	// "application/x-www-form-urlencoded" content type.
	WithFormBody(form map[string]string) HTTPRequest
	// EnsureSuccess sends the request and fails if the response status code is not in the 2xx range.
	EnsureSuccess(ctx context.Context) error
	// ReadString sends the request and reads the whole response body as a
	// string, honoring the charset declared by the response.
	ReadString(ctx context.Context) (string, error)
	// ReadJSON sends the request and decodes the response body into the target pointer.
	ReadJSON(ctx context.Context, target any) error
}

type httpRequestReadOnly interface {
	// Method returns the HTTP method, GET if none has been set.
	Method() string
	// Target returns the target URL as passed to the constructor.
	Target() string
	// URL returns a copy of the parsed target URL.
	URL() *url.URL
	// RequestHeader returns the configured headers.
	RequestHeader() http.Header
	// PathSegments returns the configured path segments in call order.
	PathSegments() []string
	// QueryParams returns the configured query pairs in call order.
	QueryParams() []QueryParam
	// RequestBody returns the deferred request body definition.
	RequestBody() Body
}

// NewHTTPRequest creates an immutable request descriptor for the target URL,
// dispatched by the given sender. Use client.NewRequest to create a
// descriptor bound to the shared default client.
func NewHTTPRequest(target string, sender Sender) HTTPRequest {
	if sender == nil {
		panic(&InvalidArgumentError{Argument: "sender", Reason: "must not be nil"})
	}
	if strings.TrimSpace(target) == "" {
		panic(&InvalidArgumentError{Argument: "target", Reason: "must not be empty"})
	}
	targetURL, err := url.Parse(target)
	if err != nil {
		panic(fmt.Errorf(`target url "%s" is not valid: %w`, target, err))
	}
	return httpRequest{sender: sender, target: targetURL, header: make(http.Header)}
}

// httpRequest implements the HTTPRequest interface with value semantics,
// every modification operates on a copy.
type httpRequest struct {
	sender       Sender
	target       *url.URL
	method       string
	header       http.Header
	pathSegments []string
	queryParams  []QueryParam
	body         Body
}

func (r httpRequest) Method() string {
	if r.method == "" {
		return http.MethodGet
	}
	return r.method
}

func (r httpRequest) Target() string {
	return r.target.String()
}

func (r httpRequest) URL() *url.URL {
	clone := *r.target
	return &clone
}

func (r httpRequest) RequestHeader() http.Header {
	return r.header
}

func (r httpRequest) PathSegments() []string {
	return r.pathSegments
}

func (r httpRequest) QueryParams() []QueryParam {
	return r.queryParams
}

func (r httpRequest) RequestBody() Body {
	return r.body
}

func (r httpRequest) WithGet() HTTPRequest {
	r.method = http.MethodGet
	return r
}

func (r httpRequest) WithPost() HTTPRequest {
	r.method = http.MethodPost
	return r
}

func (r httpRequest) WithPut() HTTPRequest {
	r.method = http.MethodPut
	return r
}

func (r httpRequest) WithPatch() HTTPRequest {
	r.method = http.MethodPatch
	return r
}

func (r httpRequest) WithDelete() HTTPRequest {
	r.method = http.MethodDelete
	return r
}

func (r httpRequest) WithTrace() HTTPRequest {
	r.method = http.MethodTrace
	return r
}

func (r httpRequest) WithHead() HTTPRequest {
	r.method = http.MethodHead
	return r
}

func (r httpRequest) WithOptions() HTTPRequest {
	r.method = http.MethodOptions
	return r
}

func (r httpRequest) AndHeader(name, value string) HTTPRequest {
	if strings.TrimSpace(name) == "" {
		panic(&InvalidArgumentError{Argument: "name", Reason: "header name must not be empty"})
	}
	r.header = r.header.Clone()
	r.header.Set(name, value)
	return r
}

func (r httpRequest) WithBearerAuth(token string) HTTPRequest {
	return r.AndHeader("Authorization", "Bearer "+strings.TrimPrefix(token, "Bearer "))
}

func (r httpRequest) WithUserAgent(value string) HTTPRequest {
	return r.AndHeader("User-Agent", value)
}

func (r httpRequest) AndAccept(contentType string) HTTPRequest {
	if previous := r.header.Get("Accept"); previous != "" {
		return r.AndHeader("Accept", previous+","+contentType)
	}
	return r.AndHeader("Accept", contentType)
}

func (r httpRequest) WithAccept(contentType string) HTTPRequest {
	return r.AndHeader("Accept", contentType)
}

func (r httpRequest) AndAcceptJSON() HTTPRequest {
	return r.AndAccept(ContentTypeJSON)
}

func (r httpRequest) AndAcceptXML() HTTPRequest {
	return r.AndAccept("application/xml")
}

func (r httpRequest) AndAcceptPlainText() HTTPRequest {
	return r.AndAccept("text/plain")
}

func (r httpRequest) AndAcceptHTML() HTTPRequest {
	return r.AndAccept("text/html")
}

func (r httpRequest) AndPathSegment(segment string) HTTPRequest {
	r.pathSegments = append(slices.Clone(r.pathSegments), segment)
	return r
}

func (r httpRequest) AndQueryParam(name, value string) HTTPRequest {
	r.queryParams = append(slices.Clone(r.queryParams), QueryParam{Name: name, Value: value})
	return r
}

func (r httpRequest) WithJSONBody(body any) HTTPRequest {
	if body == nil {
		panic(&InvalidArgumentError{Argument: "body", Reason: "must not be nil"})
	}
	r.body = Body{kind: BodyJSON, jsonValue: body}
	return r
}

func (r httpRequest) WithTextBody(body string) HTTPRequest {
	return r.WithTextBodyAs(body, "text/plain")
}

func (r httpRequest) WithTextBodyAs(body string, contentType string) HTTPRequest {
	if strings.TrimSpace(contentType) == "" {
		panic(&InvalidArgumentError{Argument: "contentType", Reason: "must not be empty"})
	}
	r.body = Body{kind: BodyText, text: body, contentType: contentType}
	return r
}

func (r httpRequest) WithFormBody(form map[string]string) HTTPRequest {
	data := make(url.Values)
	for k, v := range form {
		data.Set(k, v)
	}
	r.body = Body{kind: BodyText, text: data.Encode(), contentType: "application/x-www-form-urlencoded"}
	return r
}
