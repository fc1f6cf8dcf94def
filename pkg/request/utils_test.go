package request

import (
	"testing"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
)

func TestToFormBody(t *testing.T) {
	t.Parallel()

	m := orderedmap.New()
	m.Set("foo", "bar")

	in := map[string]any{
		"string": "value",
		"int":    123,
		"bool":   true,
		"nil":    nil,
		"slice":  []string{"a", "b"},
		"map":    map[string]string{"key": "value"},
		"json":   m,
	}
	assert.Equal(t, map[string]string{
		"string":   "value",
		"int":      "123",
		"bool":     "true",
		"nil":      "",
		"slice[0]": "a",
		"slice[1]": "b",
		"map[key]": "value",
		"json":     `{"foo":"bar"}`,
	}, ToFormBody(in))
}

func TestCastToString_Unsupported(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		castToString(struct{ Foo string }{Foo: "bar"})
	})
}
