// Package jsontree provides validated navigation over loosely typed JSON documents.
// Upstream platform APIs are unversioned, so every typed access is fallible and
// reports the exact field path that did not match.
package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// SchemaError reports an expected field that is missing or has the wrong type.
type SchemaError struct {
	Field string // last path segment, e.g. "base_url"
	Path  string // full path, e.g. "data.playurl_info.playurl.stream[0].format[1].codec[0].base_url"
	Want  string // expected kind: "object", "array", "string", "integer"
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: field %q at %s (want %s)", e.Field, e.Path, e.Want)
}

// Value is one node of a decoded JSON document together with the path used to reach it.
// A Value for a missing key is valid to navigate further; it just never exists.
type Value struct {
	raw    any
	path   string
	field  string
	exists bool
}

// Parse decodes a JSON document into a root Value. A body that is not JSON at all
// (an HTML error page, a truncated response) is reported as a SchemaError on "$".
// Numbers are kept as json.Number so large room ids survive unchanged.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, &SchemaError{Field: "$", Path: "$", Want: "JSON document"}
	}
	// Anything after the document means the body was not a single JSON value.
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, &SchemaError{Field: "$", Path: "$", Want: "single JSON document"}
	}
	return Value{raw: raw, path: "$", field: "$", exists: true}, nil
}

// Path returns the path used to reach v.
func (v Value) Path() string { return v.path }

// Exists reports whether v was present in the document and is not null.
func (v Value) Exists() bool { return v.exists && v.raw != nil }

// Get navigates to an object key. Missing keys and non-object parents yield a
// Value that does not exist.
func (v Value) Get(key string) Value {
	child := Value{path: joinKey(v.path, key), field: key}
	if obj, ok := v.raw.(map[string]any); ok {
		child.raw, child.exists = obj[key]
	}
	return child
}

// At navigates through a sequence of object keys.
func (v Value) At(keys ...string) Value {
	for _, k := range keys {
		v = v.Get(k)
	}
	return v
}

// Index navigates to an array element.
func (v Value) Index(i int) Value {
	child := Value{path: v.path + "[" + strconv.Itoa(i) + "]", field: v.field}
	if arr, ok := v.raw.([]any); ok && i >= 0 && i < len(arr) {
		child.raw, child.exists = arr[i], true
	}
	return child
}

// Array returns the elements of v, each carrying its indexed path.
func (v Value) Array() ([]Value, error) {
	arr, ok := v.raw.([]any)
	if !ok {
		return nil, v.mismatch("array")
	}
	out := make([]Value, len(arr))
	for i, item := range arr {
		out[i] = Value{
			raw:    item,
			path:   v.path + "[" + strconv.Itoa(i) + "]",
			field:  v.field,
			exists: true,
		}
	}
	return out, nil
}

// OptionalArray is like Array but treats a missing or null value as empty.
func (v Value) OptionalArray() ([]Value, error) {
	if !v.Exists() {
		return nil, nil
	}
	return v.Array()
}

// Object checks that v is a JSON object.
func (v Value) Object() error {
	if _, ok := v.raw.(map[string]any); !ok {
		return v.mismatch("object")
	}
	return nil
}

// Str returns v as a string.
func (v Value) Str() (string, error) {
	s, ok := v.raw.(string)
	if !ok {
		return "", v.mismatch("string")
	}
	return s, nil
}

// StrOr returns v as a string, or def when v is absent or not a string.
func (v Value) StrOr(def string) string {
	if s, ok := v.raw.(string); ok {
		return s
	}
	return def
}

// Int returns v as a signed integer.
func (v Value) Int() (int64, error) {
	n, ok := v.raw.(json.Number)
	if !ok {
		return 0, v.mismatch("integer")
	}
	i, err := n.Int64()
	if err != nil {
		return 0, v.mismatch("integer")
	}
	return i, nil
}

// Uint returns v as an unsigned integer.
func (v Value) Uint() (uint64, error) {
	n, ok := v.raw.(json.Number)
	if !ok {
		return 0, v.mismatch("unsigned integer")
	}
	u, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0, v.mismatch("unsigned integer")
	}
	return u, nil
}

func (v Value) mismatch(want string) *SchemaError {
	return &SchemaError{Field: v.field, Path: v.path, Want: want}
}

func joinKey(parent, key string) string {
	if parent == "$" {
		return key
	}
	return parent + "." + key
}
