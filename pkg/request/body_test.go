package request_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fluenthttp/go-client/pkg/request"
)

func TestBody_None(t *testing.T) {
	t.Parallel()
	body := request.NewHTTPRequest("https://example.com", &nopSender{}).RequestBody()
	assert.Equal(t, request.BodyNone, body.Kind())
	assert.False(t, body.IsPresent())
	assert.Equal(t, "", body.ContentType())
	assert.Nil(t, body.Value())
}

func TestBody_JSON(t *testing.T) {
	t.Parallel()
	value := map[string]any{"foo": "bar"}
	body := request.NewHTTPRequest("https://example.com", &nopSender{}).WithJSONBody(value).RequestBody()
	assert.Equal(t, request.BodyJSON, body.Kind())
	assert.True(t, body.IsPresent())
	assert.Equal(t, "application/json", body.ContentType())
	assert.Equal(t, value, body.Value())

	// Serialization is deferred to the Content call
	content, err := body.Content()
	assert.NoError(t, err)
	data, err := io.ReadAll(content)
	assert.NoError(t, err)
	assert.Equal(t, `{"foo":"bar"}`, string(data))
}

func TestBody_JSON_SerializationError(t *testing.T) {
	t.Parallel()
	body := request.NewHTTPRequest("https://example.com", &nopSender{}).WithJSONBody(make(chan int)).RequestBody()

	// Configuration accepts the value, the error surfaces at materialization
	_, err := body.Content()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot encode JSON body")
}

func TestBody_JSON_NilPanics(t *testing.T) {
	t.Parallel()
	assert.PanicsWithError(t, `invalid argument "body": must not be nil`, func() {
		request.NewHTTPRequest("https://example.com", &nopSender{}).WithJSONBody(nil)
	})
}

func TestBody_Text(t *testing.T) {
	t.Parallel()
	body := request.NewHTTPRequest("https://example.com", &nopSender{}).WithTextBody("hello").RequestBody()
	assert.Equal(t, request.BodyText, body.Kind())
	assert.Equal(t, "text/plain", body.ContentType())
	assert.Equal(t, "hello", body.Value())

	// Each Content call returns a fresh reader
	for i := 0; i < 2; i++ {
		content, err := body.Content()
		assert.NoError(t, err)
		data, err := io.ReadAll(content)
		assert.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	}
}

func TestBody_TextAs(t *testing.T) {
	t.Parallel()
	body := request.NewHTTPRequest("https://example.com", &nopSender{}).WithTextBodyAs("<a/>", "application/xml").RequestBody()
	assert.Equal(t, request.BodyText, body.Kind())
	assert.Equal(t, "application/xml", body.ContentType())

	assert.PanicsWithError(t, `invalid argument "contentType": must not be empty`, func() {
		request.NewHTTPRequest("https://example.com", &nopSender{}).WithTextBodyAs("body", " ")
	})
}

func TestBody_Form(t *testing.T) {
	t.Parallel()
	body := request.NewHTTPRequest("https://example.com", &nopSender{}).
		WithFormBody(map[string]string{"foo": "bar baz", "key": "value"}).
		RequestBody()
	assert.Equal(t, request.BodyText, body.Kind())
	assert.Equal(t, "application/x-www-form-urlencoded", body.ContentType())

	content, err := body.Content()
	assert.NoError(t, err)
	data, err := io.ReadAll(content)
	assert.NoError(t, err)
	assert.Equal(t, "foo=bar+baz&key=value", string(data))
}
