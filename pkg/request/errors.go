package request

import (
	"fmt"
)

// InvalidArgumentError reports misuse of the fluent configuration surface,
// for example an empty header name or a nil JSON body.
// Configuration methods cannot return an error without breaking the chain,
// so they panic with this type, synchronously, before any network activity.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf(`invalid argument "%s": %s`, e.Argument, e.Reason)
}

// UnsuccessfulResponseError is returned by a terminal action when the
// response status code is outside the 2xx range.
type UnsuccessfulResponseError struct {
	StatusCode   int
	ReasonPhrase string
	Method       string
	URL          string
}

func (e *UnsuccessfulResponseError) Error() string {
	return fmt.Sprintf(`request %s "%s" failed: %d %s`, e.Method, e.URL, e.StatusCode, e.ReasonPhrase)
}

// DeserializationError is returned by ReadJSON and ReadJSONAs when the
// response body cannot be decoded into the target shape.
type DeserializationError struct {
	ContentType string
	Err         error
}

func (e *DeserializationError) Error() string {
	if e.ContentType != "" && !IsJSONContentType(e.ContentType) {
		return fmt.Sprintf(`cannot decode response with content type "%s" as JSON: %s`, e.ContentType, e.Err)
	}
	return fmt.Sprintf(`cannot decode JSON response: %s`, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
