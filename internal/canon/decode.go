package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Decode parses JSON into a Value. Numbers without a fraction or
// exponent become Int, everything else Float, so a value round-trips
// through Marshal and Decode without losing integer precision above
// 2^53.
//
// Decode accepts any valid JSON, not only canonical form: it is used
// to hydrate stored payloads, and canonical-form enforcement happens
// by re-hashing, not by parsing.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode canonical json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode canonical json: trailing data")
	}

	return fromDecoded(raw)
}

func fromDecoded(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case json.Number:
		s := v.String()
		if !strings.ContainsAny(s, ".eE") {
			i, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("decode canonical json: integer %s out of range", s)
			}
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("decode canonical json: number %s: %w", s, err)
		}
		return Float(f), nil
	case []any:
		arr := make(Array, len(v))
		for i, item := range v {
			val, err := fromDecoded(item)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(v))
		for key, item := range v {
			val, err := fromDecoded(item)
			if err != nil {
				return nil, err
			}
			obj[key] = val
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("decode canonical json: unsupported type %T", raw)
	}
}
