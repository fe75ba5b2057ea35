package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Built-in type tags. The names are shared with the Python valkey-dict wire
// format readers expect.
const (
	TagStr   = "str"
	TagInt   = "int"
	TagFloat = "float"
	TagBool  = "bool"
	TagNone  = "none"
	TagList  = "list"
	TagDict  = "dict"
)

// builtinTag resolves the tag for values of unregistered types. Exact types
// first, then slice and map kinds, then the Go type name.
func builtinTag(v any) string {
	switch v.(type) {
	case string:
		return TagStr
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TagInt
	case float32, float64:
		return TagFloat
	case bool:
		return TagBool
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return TagList
	case reflect.Map:
		return TagDict
	default:
		return reflect.TypeOf(v).Name()
	}
}

// registerBuiltins populates a fresh registry with the built-in encoders and
// decoders. Integers canonicalize to int64, floats to float64; list and dict
// payloads are JSON, so nested numbers decode as float64.
func registerBuiltins(r *Registry) {
	r.RegisterEncoder(TagStr, func(v any) (string, error) {
		return v.(string), nil
	})
	r.RegisterDecoder(TagStr, func(payload string) (any, error) {
		return payload, nil
	})

	r.RegisterEncoder(TagInt, encodeInt)
	r.RegisterDecoder(TagInt, func(payload string) (any, error) {
		return strconv.ParseInt(payload, 10, 64)
	})

	r.RegisterEncoder(TagFloat, func(v any) (string, error) {
		switch f := v.(type) {
		case float32:
			return strconv.FormatFloat(float64(f), 'g', -1, 64), nil
		case float64:
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
		return "", fmt.Errorf("not a float: %T", v)
	})
	r.RegisterDecoder(TagFloat, func(payload string) (any, error) {
		return strconv.ParseFloat(payload, 64)
	})

	r.RegisterEncoder(TagBool, func(v any) (string, error) {
		return strconv.FormatBool(v.(bool)), nil
	})
	r.RegisterDecoder(TagBool, func(payload string) (any, error) {
		return strconv.ParseBool(payload)
	})

	r.RegisterEncoder(TagNone, func(any) (string, error) {
		return "", nil
	})
	r.RegisterDecoder(TagNone, func(string) (any, error) {
		return nil, nil
	})

	r.RegisterEncoder(TagList, encodeJSON)
	r.RegisterDecoder(TagList, func(payload string) (any, error) {
		var v []any
		err := json.Unmarshal([]byte(payload), &v)
		return v, err
	})

	r.RegisterEncoder(TagDict, encodeJSON)
	r.RegisterDecoder(TagDict, func(payload string) (any, error) {
		var v map[string]any
		err := json.Unmarshal([]byte(payload), &v)
		return v, err
	})
}

func encodeInt(v any) (string, error) {
	switch i := v.(type) {
	case int:
		return strconv.FormatInt(int64(i), 10), nil
	case int8:
		return strconv.FormatInt(int64(i), 10), nil
	case int16:
		return strconv.FormatInt(int64(i), 10), nil
	case int32:
		return strconv.FormatInt(int64(i), 10), nil
	case int64:
		return strconv.FormatInt(i, 10), nil
	case uint:
		return strconv.FormatUint(uint64(i), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(i), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(i), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(i), 10), nil
	case uint64:
		return strconv.FormatUint(i, 10), nil
	}
	return "", fmt.Errorf("not an integer: %T", v)
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// defaultDecode is the fallback for envelopes whose tag has no registered
// decoder. It coerces obvious literals and otherwise returns the raw payload,
// it never fails.
func defaultDecode(payload string) any {
	if i, err := strconv.ParseInt(payload, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(payload, 64); err == nil {
		return f
	}
	switch payload {
	case "true":
		return true
	case "false":
		return false
	}
	return payload
}
