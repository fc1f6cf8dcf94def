package decode

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
)

func TestDecode_Identity(t *testing.T) {
	t.Parallel()
	body := io.NopCloser(strings.NewReader("plain"))
	out, err := Decode(body, "")
	assert.NoError(t, err)
	assert.True(t, body == out)
}

func TestDecode_Gzip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte("gzip content"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	out, err := Decode(io.NopCloser(&buf), "gzip")
	assert.NoError(t, err)
	data, err := io.ReadAll(out)
	assert.NoError(t, err)
	assert.Equal(t, "gzip content", string(data))
	assert.NoError(t, out.Close())
}

func TestDecode_Brotli(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write([]byte("brotli content"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	out, err := Decode(io.NopCloser(&buf), "br")
	assert.NoError(t, err)
	data, err := io.ReadAll(out)
	assert.NoError(t, err)
	assert.Equal(t, "brotli content", string(data))
	assert.NoError(t, out.Close())
}

func TestDecode_InvalidGzip(t *testing.T) {
	t.Parallel()
	_, err := Decode(io.NopCloser(strings.NewReader("not gzip")), "gzip")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot decode gzip")
}

func TestDecode_CloseClosesRaw(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte("content"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	closed := false
	raw := closeRecorder{Reader: &buf, closed: &closed}
	out, err := Decode(raw, "gzip")
	assert.NoError(t, err)
	assert.NoError(t, out.Close())
	assert.True(t, closed)
}

type closeRecorder struct {
	io.Reader
	closed *bool
}

func (r closeRecorder) Close() error {
	*r.closed = true
	return nil
}
