/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindAbsent is the zero Value. It signals "nothing here".
	KindAbsent Kind = iota

	// KindString is a plain string scalar.
	KindString

	// KindNumber is a numeric scalar.
	KindNumber

	// KindBool is a boolean scalar.
	KindBool

	// KindComposite is a non-scalar value field (list or object).
	KindComposite

	// KindReference points at another token by dotted path.
	KindReference
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindComposite:
		return "composite"
	case KindReference:
		return "reference"
	default:
		return "absent"
	}
}

// Value is a leaf value: a terminal scalar, a composite, or a reference.
// The zero Value is absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	raw  any
	ref  Path
}

// String makes a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number makes a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool makes a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Composite wraps a list or object value field.
func Composite(v any) Value { return Value{kind: KindComposite, raw: v} }

// Ref makes a reference to the token at path.
func Ref(path Path) Value { return Value{kind: KindReference, ref: path} }

// Absent returns the absent Value.
func Absent() Value { return Value{} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v carries nothing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsReference reports whether v points at another token.
func (v Value) IsReference() bool { return v.kind == KindReference }

// Reference returns the referenced path. It is nil unless v is a reference.
func (v Value) Reference() Path { return v.ref }

// IsTruthy reports whether v would count as set in a mode override.
// Absent values, empty strings, zero and false do not.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	case KindComposite:
		return v.raw != nil
	case KindReference:
		return true
	default:
		return false
	}
}

// Interface returns the Go value held by v: string, float64, bool, the
// composite value, the "{path}" form for references, or nil when absent.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindComposite:
		return v.raw
	case KindReference:
		return "{" + v.ref.String() + "}"
	default:
		return nil
	}
}

// String formats v for display.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindComposite:
		data, err := json.Marshal(v.raw)
		if err != nil {
			return ""
		}
		return string(data)
	case KindReference:
		return "{" + v.ref.String() + "}"
	default:
		return ""
	}
}

// MarshalJSON encodes v as its plain JSON value; absent encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// referencePattern matches a whole-string reference: {seg.seg.seg}.
var referencePattern = regexp.MustCompile(`^\{([^{}.\s]+(?:\.[^{}.\s]+)*)\}$`)

// ParseReference extracts the path from a whole-string reference such as
// "{core.color.primary}". Strings with any other shape are not references.
func ParseReference(s string) (Path, bool) {
	m := referencePattern.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	return ParsePath(m[1])
}

// FromRaw classifies a decoded document value. When refs is true, strings
// shaped like references become reference Values.
func FromRaw(raw any, refs bool) Value {
	switch x := raw.(type) {
	case nil:
		return Absent()
	case string:
		if refs {
			if p, ok := ParseReference(x); ok {
				return Ref(p)
			}
		}
		return String(x)
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	default:
		return Composite(x)
	}
}
