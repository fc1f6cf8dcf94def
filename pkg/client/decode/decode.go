// Package decode provides response content decoding for the "gzip" and "br" encodings.
package decode

import (
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// Decode wraps the body with a decoder matching the Content-Encoding value.
// Closing the returned reader closes the decoder state and the original body,
// so the wrapped body can be released by a single Close call.
func Decode(body io.ReadCloser, contentEncoding string) (io.ReadCloser, error) {
	switch strings.ToLower(contentEncoding) {
	case "gzip":
		r, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("cannot decode gzip: %w", err)
		}
		return &decodedBody{reader: r, decoder: r, raw: body}, nil
	case "br":
		return &decodedBody{reader: brotli.NewReader(body), raw: body}, nil
	default:
		return body, nil
	}
}

type decodedBody struct {
	reader  io.Reader
	decoder io.Closer // gzip state, nil for brotli
	raw     io.Closer
}

func (b *decodedBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *decodedBody) Close() error {
	var err error
	if b.decoder != nil {
		err = b.decoder.Close()
	}
	if rawErr := b.raw.Close(); err == nil {
		err = rawErr
	}
	return err
}
