// Package canon provides canonical JSON serialization and SHA-256
// hashing for absolute determinism. Equal-by-value inputs always
// canonicalize to identical bytes, regardless of map insertion order
// or original container type.
//
// CRITICAL: Marshal is the ONLY serialization that may feed identity
// computation anywhere in the kernel. Its rules:
//
//  1. Object keys sorted by exact byte order of their UTF-8 encoding
//  2. No insignificant whitespace
//  3. Strings are NFC normalized and minimally escaped (no HTML escaping)
//  4. Floats must be finite and serialize in shortest round-trip form
//  5. Output is UTF-8
package canon

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Marshal produces canonical JSON bytes for a canonical value.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalEncoder projects an Encoder and marshals the result.
func MarshalEncoder(e Encoder) ([]byte, error) {
	return Marshal(e.CanonicalValue())
}

func marshalValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return &EncodingError{GoType: "nil", Reason: "untyped nil is not a canonical value"}
	case Null:
		buf.WriteString("null")
		return nil
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case Float:
		return marshalFloat(buf, float64(val))
	case String:
		marshalString(buf, string(val))
		return nil
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalValue(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case Object:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			marshalString(buf, k)
			buf.WriteByte(':')
			if err := marshalValue(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return &EncodingError{GoType: fmt.Sprintf("%T", v), Reason: "unsupported canonical value variant"}
	}
}

// marshalFloat rejects non-finite values and emits the shortest
// representation that round-trips through float64.
func marshalFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) {
		return &EncodingError{GoType: "float64", Reason: "NaN is not allowed in canonical JSON"}
	}
	if math.IsInf(f, 0) {
		return &EncodingError{GoType: "float64", Reason: "Inf is not allowed in canonical JSON"}
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}

// marshalString writes a quoted, escaped JSON string. The string is
// NFC normalized at the serialization boundary. Only the quote,
// backslash, and control characters below U+0020 are escaped; all
// other characters pass through as literal UTF-8 (no HTML escaping,
// no \uXXXX for printable characters).
func marshalString(buf *bytes.Buffer, s string) {
	normalized := norm.NFC.String(s)

	buf.WriteByte('"')
	for _, b := range []byte(normalized) {
		switch b {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			if b < 0x20 {
				const hex = "0123456789abcdef"
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[b>>4])
				buf.WriteByte(hex[b&0xf])
			} else {
				buf.WriteByte(b)
			}
		}
	}
	buf.WriteByte('"')
}
