package request

import (
	jsonlib "encoding/json"
	"fmt"
	"reflect"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/spf13/cast"
)

// ToFormBody converts a JSON like map to a flat form body map for WithFormBody.
// Slices and string maps are expanded to indexed keys, any other value is cast to a string.
func ToFormBody(in map[string]any) (out map[string]string) {
	out = make(map[string]string)
	for k, v := range in {
		ty := reflect.TypeOf(v)
		switch {
		case ty == nil:
			// A nil value has no type, it is rendered as an empty string.
			out[k] = castToString(v)
		case ty.Kind() == reflect.Slice:
			for i, s := range v.([]string) {
				out[fmt.Sprintf("%s[%d]", k, i)] = s
			}
		case ty.Kind() == reflect.Map && ty.Elem().Kind() == reflect.String:
			for i, s := range v.(map[string]string) {
				out[fmt.Sprintf("%s[%s]", k, i)] = s
			}
		default:
			out[k] = castToString(v)
		}
	}
	return out
}

func castToString(v any) string {
	// Ordered map values are serialized as JSON.
	// The standard json library is used, jsoniter returns non-compact output
	// for the custom OrderedMap.MarshalJSON method.
	if m, ok := v.(*orderedmap.OrderedMap); ok {
		if data, err := jsonlib.Marshal(m); err == nil {
			return string(data)
		} else {
			panic(fmt.Errorf(`cannot cast %T to string: %w`, v, err))
		}
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	} else {
		panic(fmt.Errorf(`cannot cast %T to string: %w`, v, err))
	}
}
