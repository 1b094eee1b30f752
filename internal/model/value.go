package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies which member of the loose value sum a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindMap:
		return "map"
	default:
		return "absent"
	}
}

// Value is a loosely-typed value as delivered by the sync source: a string,
// a number, a nested mapping, or absent. Anything else that shows up in the
// raw payload (bool, array, null) decodes as absent and is left for the
// validator to flag.
type Value struct {
	kind Kind
	str  string
	num  float64
	m    map[string]Value
}

// Absent returns the zero Value.
func Absent() Value { return Value{} }

// String builds a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number builds a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Map builds a mapping Value.
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// Kind reports which member of the sum the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsString returns the string member, if present.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric member, if present.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsMap returns the mapping member, if present. The returned map is shared,
// not copied; callers treat it as read-only.
func (v Value) AsMap() (map[string]Value, bool) {
	return v.m, v.kind == KindMap
}

// Get looks up a key on a mapping value. Non-mapping values and missing keys
// yield an absent Value.
func (v Value) Get(key string) Value {
	if v.kind != KindMap {
		return Value{}
	}
	return v.m[key]
}

// Raw renders the value for error messages: the string itself, the shortest
// numeric form, or a compact map rendering.
func (v Value) Raw() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("map%v", keys)
	default:
		return "<absent>"
	}
}

// UnmarshalJSON decodes an arbitrary JSON value into the loose sum. JSON
// types outside the sum decode as absent rather than failing: malformed
// shapes are a validation concern, not a decode error.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromJSON(raw)
	return nil
}

// MarshalJSON renders the value back out as the JSON type it came from.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindMap:
		return json.Marshal(v.m)
	default:
		return []byte("null"), nil
	}
}

func fromJSON(raw interface{}) Value {
	switch t := raw.(type) {
	case string:
		return String(t)
	case float64:
		return Number(t)
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, inner := range t {
			m[k] = fromJSON(inner)
		}
		return Map(m)
	default:
		return Value{}
	}
}
