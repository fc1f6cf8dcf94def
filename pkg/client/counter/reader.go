// Package counter provides a byte counting wrapper for request and response bodies.
package counter

import (
	"errors"
	"io"
)

// OnClose is called exactly once, when the wrapped reader is closed.
// The err value is the first read error other than io.EOF, or the close error.
type OnClose func(bytes int64, err error)

// ReadCloser wraps an io.ReadCloser (request/response body) and counts the bytes read from it.
// The optional OnClose callback makes the release of the body observable.
type ReadCloser struct {
	wrapped io.ReadCloser
	onClose OnClose
	bytes   int64
	readErr error
	closed  bool
}

func NewReadCloser(wrapped io.ReadCloser, onClose OnClose) *ReadCloser {
	return &ReadCloser{wrapped: wrapped, onClose: onClose}
}

// Bytes returns the number of bytes read so far.
func (w *ReadCloser) Bytes() int64 {
	return w.bytes
}

func (w *ReadCloser) Read(b []byte) (int, error) {
	n, err := w.wrapped.Read(b)
	w.bytes += int64(n)
	w.readErr = err
	return n, err
}

// Close closes the wrapped reader and invokes the OnClose callback.
// Repeated calls close the wrapped reader again, but the callback fires only once.
func (w *ReadCloser) Close() error {
	closeErr := w.wrapped.Close()
	if w.onClose != nil && !w.closed {
		w.closed = true
		// Prefer the read error over the close error, it is usually more useful
		var onCloseErr error
		if w.readErr != nil && !errors.Is(w.readErr, io.EOF) {
			onCloseErr = w.readErr
		} else if closeErr != nil {
			onCloseErr = closeErr
		}
		w.onClose(w.bytes, onCloseErr)
	}
	return closeErr
}
