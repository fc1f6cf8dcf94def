package request

import (
	jsoniter "github.com/json-iterator/go"
)

// json - replacement of the standard encoding/json library, it is faster for
// larger payloads and keeps the case-insensitive field matching of the
// standard library.
var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
