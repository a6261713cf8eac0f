package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Fields is a loosely-typed record decoded from the upstream API. Every lookup
// takes a list of aliases and returns the first one that carries a value.
type Fields map[string]interface{}

// Value returns the first non-nil value among keys
func (f Fields) Value(keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any of keys carries a non-nil value
func (f Fields) Has(keys ...string) bool {
	_, ok := f.Value(keys...)
	return ok
}

// String returns the first non-empty string representation among keys
func (f Fields) String(keys ...string) string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}
		if s := ToString(v); s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first value among keys that converts to a finite number, truncated
func (f Fields) Int(keys ...string) (int, bool) {
	v, ok := f.Float(keys...)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// Float returns the first value among keys that converts to a finite number
func (f Fields) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}
		if n, ok := ToFloat(v); ok {
			return n, true
		}
	}
	return 0, false
}

// Bool returns the first value among keys that converts to a boolean
func (f Fields) Bool(keys ...string) (bool, bool) {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true", "1", "yes":
				return true, true
			case "false", "0", "no":
				return false, true
			}
		default:
			if n, ok := ToFloat(v); ok {
				return n != 0, true
			}
		}
	}
	return false, false
}

// List returns the first array among keys
func (f Fields) List(keys ...string) []interface{} {
	for _, k := range keys {
		if l, ok := f[k].([]interface{}); ok {
			return l
		}
	}
	return nil
}

// Object returns the first nested object among keys
func (f Fields) Object(keys ...string) Fields {
	for _, k := range keys {
		if o, ok := f[k].(map[string]interface{}); ok {
			return Fields(o)
		}
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time returns the first value among keys that parses as a timestamp
func (f Fields) Time(keys ...string) (time.Time, bool) {
	for _, k := range keys {
		s := strings.TrimSpace(ToString(f[k]))
		if s == "" {
			continue
		}
		if t, ok := ParseTime(s, time.UTC); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseTime accepts RFC 3339 and the date-only forms used by the backend
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToString renders scalars the way the backend would have written them
func ToString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint:
		return strconv.FormatUint(uint64(s), 10)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// ToFloat converts numbers and numeric strings, rejecting NaN and infinities
func ToFloat(v interface{}) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
