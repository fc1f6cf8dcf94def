package request

import (
	"strings"

	"github.com/umisama/go-regexpcache"
)

// ContentTypeJSON is the content type implied by WithJSONBody.
const ContentTypeJSON = "application/json"

const jsonContentTypePattern = `^application/([a-zA-Z0-9\.\-]+\+)?json$`

// IsJSONContentType returns true for "application/json" and its "+json"
// variants, e.g. "application/vnd.api+json". Media type parameters,
// e.g. "; charset=utf-8", are ignored.
func IsJSONContentType(contentType string) bool {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return regexpcache.MustCompile(jsonContentTypePattern).MatchString(strings.TrimSpace(contentType))
}
