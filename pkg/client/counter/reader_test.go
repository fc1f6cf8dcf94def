package counter

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type errReader struct {
	err error
}

func (r *errReader) Read(p []byte) (int, error) {
	return 0, r.err
}

func (r *errReader) Close() error {
	return nil
}

func TestReadCloser_CountsBytes(t *testing.T) {
	t.Parallel()
	var gotBytes int64
	var gotErr error
	calls := 0
	r := NewReadCloser(io.NopCloser(strings.NewReader("hello world")), func(bytes int64, err error) {
		calls++
		gotBytes = bytes
		gotErr = err
	})

	data, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
	assert.Equal(t, int64(11), r.Bytes())

	assert.NoError(t, r.Close())
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(11), gotBytes)
	assert.NoError(t, gotErr)
}

func TestReadCloser_CallbackFiresOnce(t *testing.T) {
	t.Parallel()
	calls := 0
	r := NewReadCloser(io.NopCloser(strings.NewReader("data")), func(bytes int64, err error) {
		calls++
	})
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
	assert.Equal(t, 1, calls)
}

func TestReadCloser_ReportsReadError(t *testing.T) {
	t.Parallel()
	readErr := errors.New("unexpected EOF")
	var gotErr error
	r := NewReadCloser(&errReader{err: readErr}, func(bytes int64, err error) {
		gotErr = err
	})

	_, err := io.ReadAll(r)
	assert.ErrorIs(t, err, readErr)
	assert.NoError(t, r.Close())
	assert.ErrorIs(t, gotErr, readErr)
}

func TestReadCloser_NilCallback(t *testing.T) {
	t.Parallel()
	r := NewReadCloser(io.NopCloser(strings.NewReader("data")), nil)
	assert.NoError(t, r.Close())
}
