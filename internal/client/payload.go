// ABOUTME: Ordered request payloads with absent-value filtering
// ABOUTME: Builds query strings and JSON bodies in the caller's key order

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Field is one key/value pair of a payload. A nil value is absent.
type Field struct {
	Key   string
	Value any
}

// Payload is an ordered set of fields
type Payload []Field

// Compact returns the payload without absent fields, preserving order
func (p Payload) Compact() Payload {
	out := make(Payload, 0, len(p))
	for _, f := range p {
		if !isAbsent(f.Value) {
			out = append(out, f)
		}
	}
	return out
}

// MarshalJSON encodes the payload as a JSON object in key order, skipping absent fields
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range p {
		if isAbsent(f.Value) {
			continue
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Query renders the payload as "?k=v&k2=v2", or "" when nothing remains
func Query(p Payload) string {
	parts := make([]string, 0, len(p))
	for _, f := range p {
		if isAbsent(f.Value) {
			continue
		}
		parts = append(parts, encodeURIComponent(f.Key)+"="+encodeURIComponent(stringify(f.Value)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

// isAbsent reports nil and typed-nil values
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// stringify renders a value the way a browser would coerce it to a string
func stringify(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if b, ok := rv.Interface().([]byte); ok {
			return string(b)
		}
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(items, ",")
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(rv.Interface())
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( )
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
