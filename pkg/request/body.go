package request

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// BodyKind enumerates the request body variants.
type BodyKind int

const (
	// BodyNone - no body is sent.
	BodyNone BodyKind = iota
	// BodyJSON - the body is the JSON serialization of a value.
	BodyJSON
	// BodyText - the body is a literal string with an explicit content type.
	BodyText
)

// Body is a deferred request body definition.
// Configuration only records the variant, the content is materialized by the
// Content method when the send pipeline runs, never earlier. The zero value
// means no body.
type Body struct {
	kind        BodyKind
	jsonValue   any
	text        string
	contentType string
}

// Kind returns the body variant.
func (b Body) Kind() BodyKind {
	return b.kind
}

// IsPresent returns true if a body has been configured.
func (b Body) IsPresent() bool {
	return b.kind != BodyNone
}

// ContentType returns the content type implied by the body variant,
// or an empty string if no body has been configured.
func (b Body) ContentType() string {
	switch b.kind {
	case BodyJSON:
		return ContentTypeJSON
	case BodyText:
		return b.contentType
	default:
		return ""
	}
}

// Value returns the value backing the body definition: the value to be
// serialized for BodyJSON, the literal string for BodyText, nil for BodyNone.
func (b Body) Value() any {
	switch b.kind {
	case BodyJSON:
		return b.jsonValue
	case BodyText:
		return b.text
	default:
		return nil
	}
}

// Content materializes the body. Each call produces a fresh reader, so the
// send pipeline can rewind the body for redirects and retries.
func (b Body) Content() (io.ReadCloser, error) {
	switch b.kind {
	case BodyJSON:
		data, err := json.Marshal(b.jsonValue)
		if err != nil {
			return nil, fmt.Errorf(`cannot encode JSON body: %w`, err)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case BodyText:
		return io.NopCloser(strings.NewReader(b.text)), nil
	default:
		return nil, nil
	}
}
