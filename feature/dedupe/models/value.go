package models

import (
	"encoding/json"
	"sort"
	"strings"

	"provider-dedupe/core/utils"
)

// Kind identifies the shape of a field value.
type Kind int

const (
	// KindAbsent means the field carries no value.
	KindAbsent Kind = iota
	// KindText is a free-form string value.
	KindText
	// KindNumber is a numeric value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindReferences is a list of linked-record identifiers.
	KindReferences
)

// Value is the closed sum type for a single field value.
// Raw source payloads are resolved into this form exactly once, at intake,
// so downstream stages never re-inspect dynamic types.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
	Refs   []string
}

// Absent is the zero Value.
var Absent = Value{Kind: KindAbsent}

// NewText returns a text Value. An empty string is Absent.
func NewText(s string) Value {
	if s == "" {
		return Absent
	}
	return Value{Kind: KindText, Text: s}
}

// NewNumber returns a numeric Value.
func NewNumber(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// NewBool returns a boolean Value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewReferences returns a reference-list Value. Duplicate identifiers are
// dropped, first occurrence wins.
func NewReferences(ids ...string) Value {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return Absent
	}
	return Value{Kind: KindReferences, Refs: out}
}

// IsEmpty reports whether the value carries no information.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindAbsent:
		return true
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	case KindReferences:
		return len(v.Refs) == 0
	default:
		return false
	}
}

// AsText returns a string rendering of the value for normalization purposes.
// Reference lists render as an empty string; they are never flattened into
// comparable text.
func (v Value) AsText() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return utils.ToString(v.Number)
	case KindBool:
		return utils.ToString(v.Bool)
	default:
		return ""
	}
}

// Equal reports whether two values carry the same payload.
// Reference lists compare as ordered sets (same ids, same order).
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		// An absent value equals any empty value of another kind.
		return v.IsEmpty() && o.IsEmpty()
	}
	switch v.Kind {
	case KindAbsent:
		return true
	case KindText:
		return v.Text == o.Text
	case KindNumber:
		return v.Number == o.Number
	case KindBool:
		return v.Bool == o.Bool
	case KindReferences:
		if len(v.Refs) != len(o.Refs) {
			return false
		}
		for i := range v.Refs {
			if v.Refs[i] != o.Refs[i] {
				return false
			}
		}
		return true
	}
	return false
}

// ToAny converts the value to its plain JSON-compatible representation.
func (v Value) ToAny() any {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number
	case KindBool:
		return v.Bool
	case KindReferences:
		refs := make([]string, len(v.Refs))
		copy(refs, v.Refs)
		return refs
	default:
		return nil
	}
}

// MarshalJSON renders the value as its plain representation.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToAny())
}

// UnmarshalJSON resolves a plain JSON value through ParseValue.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ParseValue(raw)
	return nil
}

// ParseValue resolves an arbitrary decoded JSON value into the closed sum
// type. A list of strings that all look like record references becomes a
// reference list; any other list is flattened to comma-joined text.
func ParseValue(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Absent
	case string:
		return NewText(t)
	case bool:
		return NewBool(t)
	case float64:
		return NewNumber(t)
	case float32:
		return NewNumber(float64(t))
	case int:
		return NewNumber(float64(t))
	case int64:
		return NewNumber(float64(t))
	case []string:
		return parseStringList(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				items = append(items, utils.ToString(item))
				continue
			}
			items = append(items, s)
		}
		return parseStringList(items)
	default:
		return NewText(utils.ToString(t))
	}
}

func parseStringList(items []string) Value {
	if len(items) == 0 {
		return Absent
	}
	allRefs := true
	for _, item := range items {
		if !LooksLikeReference(item) {
			allRefs = false
			break
		}
	}
	if allRefs {
		return NewReferences(items...)
	}
	return NewText(strings.Join(items, ", "))
}

// FieldMap maps field names to resolved values.
type FieldMap map[string]Value

// ParseFields resolves a raw field payload into a FieldMap.
// Absent values are dropped.
func ParseFields(raw map[string]any) FieldMap {
	out := make(FieldMap, len(raw))
	for name, val := range raw {
		v := ParseValue(val)
		if v.Kind == KindAbsent {
			continue
		}
		out[name] = v
	}
	return out
}

// ToAny converts the field map to its plain JSON-compatible representation.
// Empty values are dropped.
func (m FieldMap) ToAny() map[string]any {
	out := make(map[string]any, len(m))
	for name, v := range m {
		if v.IsEmpty() {
			continue
		}
		out[name] = v.ToAny()
	}
	return out
}

// Clone returns a deep copy of the field map.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for name, v := range m {
		if v.Kind == KindReferences {
			out[name] = NewReferences(v.Refs...)
			continue
		}
		out[name] = v
	}
	return out
}

// PopulatedCount returns the number of non-empty fields, ignoring the given
// field names.
func (m FieldMap) PopulatedCount(ignore map[string]struct{}) int {
	n := 0
	for name, v := range m {
		if _, skip := ignore[name]; skip {
			continue
		}
		if !v.IsEmpty() {
			n++
		}
	}
	return n
}

// Names returns the sorted field names present in the map.
func (m FieldMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
