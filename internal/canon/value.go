package canon

import (
	"fmt"
	"math"
	"sort"
)

// Value is a sealed interface over the closed set of JSON-safe variants.
// Only Null, Bool, Int, Float, String, Array, and Object implement it.
// The codec dispatches on this set; there is no duck-typed fallback.
type Value interface {
	canonValue()
}

// Encoder is implemented by types that project themselves into the
// canonical value model. This is the single serialization interface:
// the projection a type returns here is exactly what gets hashed and
// exactly what gets stored, so hash and serialization cannot drift.
type Encoder interface {
	CanonicalValue() Value
}

// Null represents an explicit JSON null. Optional fields are encoded as
// Null, never omitted, so "absent" is distinguishable and stable.
type Null struct{}

func (Null) canonValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) canonValue() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) canonValue() {}

// Float represents a finite float64. NaN and ±Inf are rejected at the
// conversion and marshal boundaries, never silently coerced.
type Float float64

func (Float) canonValue() {}

// String represents a string value.
type String string

func (String) canonValue() {}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) canonValue() {}

// Object represents a string-keyed mapping. Use SortedKeys for
// deterministic iteration.
type Object map[string]Value

func (Object) canonValue() {}

// Every variant is also its own Encoder, so plain values can be used
// anywhere a canonical projection is required.
func (v Null) CanonicalValue() Value   { return v }
func (v Bool) CanonicalValue() Value   { return v }
func (v Int) CanonicalValue() Value    { return v }
func (v Float) CanonicalValue() Value  { return v }
func (v String) CanonicalValue() Value { return v }
func (v Array) CanonicalValue() Value  { return v }
func (v Object) CanonicalValue() Value { return v }

// SortedKeys returns the object's keys in canonical order: exact byte
// order of the UTF-8 key strings.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromGo converts a plain Go value into the canonical value model.
// This is the single choke point where JSON-safety is enforced:
// NaN/Inf floats, byte blobs, non-string-keyed maps, and any type
// without a defined conversion are rejected with *EncodingError.
// Applied recursively; nothing downstream coerces.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case Encoder:
		return val.CanonicalValue(), nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, &EncodingError{GoType: fmt.Sprintf("%T", v), Reason: "unsigned value overflows int64"}
		}
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, &EncodingError{GoType: fmt.Sprintf("%T", v), Reason: "unsigned value overflows int64"}
		}
		return Int(val), nil
	case float32:
		return floatValue(float64(val))
	case float64:
		return floatValue(val)
	case []byte:
		return nil, &EncodingError{GoType: "[]byte", Reason: "raw byte blobs are not JSON-safe"}
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			cv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = cv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			cv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = cv
		}
		return obj, nil
	default:
		return nil, &EncodingError{GoType: fmt.Sprintf("%T", v), Reason: "no defined conversion to a canonical value"}
	}
}

// floatValue validates finiteness before admitting a float.
func floatValue(f float64) (Value, error) {
	if math.IsNaN(f) {
		return nil, &EncodingError{GoType: "float64", Reason: "NaN is not allowed in canonical JSON"}
	}
	if math.IsInf(f, 0) {
		return nil, &EncodingError{GoType: "float64", Reason: "Inf is not allowed in canonical JSON"}
	}
	return Float(f), nil
}

// StringsToArray converts a string slice to a canonical Array.
func StringsToArray(ss []string) Array {
	arr := make(Array, len(ss))
	for i, s := range ss {
		arr[i] = String(s)
	}
	return arr
}
