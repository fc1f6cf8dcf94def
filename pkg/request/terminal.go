package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"golang.org/x/net/html/charset"
)

// send runs the pipeline once through the injected sender.
// The context is checked first, a cancelled request is never dispatched.
func (r httpRequest) send(ctx context.Context) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.sender.Send(ctx, r)
}

// ensureSuccess converts a non-2xx response to an UnsuccessfulResponseError.
func (r httpRequest) ensureSuccess(res *http.Response) error {
	if res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	reqURL := r.Target()
	if res.Request != nil {
		reqURL = res.Request.URL.String()
	}
	return &UnsuccessfulResponseError{
		StatusCode:   res.StatusCode,
		ReasonPhrase: http.StatusText(res.StatusCode),
		Method:       r.Method(),
		URL:          reqURL,
	}
}

func (r httpRequest) EnsureSuccess(ctx context.Context) (err error) {
	res, err := r.send(ctx)
	if err != nil {
		return err
	}
	defer closeBody(res, &err)
	return r.ensureSuccess(res)
}

func (r httpRequest) ReadString(ctx context.Context) (out string, err error) {
	res, err := r.send(ctx)
	if err != nil {
		return "", err
	}
	defer closeBody(res, &err)

	if err := r.ensureSuccess(res); err != nil {
		return "", err
	}

	// Convert the body to UTF-8 according to the declared charset, if any.
	reader, err := charset.NewReader(res.Body, res.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf(`cannot decode response charset: %w`, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf(`cannot read response body: %w`, err)
	}
	return string(data), nil
}

func (r httpRequest) ReadJSON(ctx context.Context, target any) (err error) {
	if target == nil || reflect.ValueOf(target).Kind() != reflect.Ptr {
		panic(&InvalidArgumentError{Argument: "target", Reason: "must be a non-nil pointer"})
	}

	res, err := r.send(ctx)
	if err != nil {
		return err
	}
	defer closeBody(res, &err)

	if err := r.ensureSuccess(res); err != nil {
		return err
	}

	if err := json.NewDecoder(res.Body).Decode(target); err != nil {
		return &DeserializationError{ContentType: res.Header.Get("Content-Type"), Err: err}
	}
	return nil
}

// ReadJSONAs sends the request and decodes the response body into the type T.
// It is a package level function, methods cannot have generic type parameters.
func ReadJSONAs[T any](ctx context.Context, r HTTPRequest) (T, error) {
	var target T
	err := r.ReadJSON(ctx, &target)
	return target, err
}

// closeBody releases the response resources.
// A custom Sender may return a response without a body.
// A close failure does not override an earlier error from the terminal action.
func closeBody(res *http.Response, errPtr *error) {
	if res.Body == nil {
		return
	}
	if closeErr := res.Body.Close(); closeErr != nil && *errPtr == nil {
		*errPtr = fmt.Errorf(`cannot close response body: %w`, closeErr)
	}
}
