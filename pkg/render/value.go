package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueKind classifies a Value by its underlying type.
type ValueKind int

const (
	// KindUndefined is the kind of the zero Value and of failed lookups.
	KindUndefined ValueKind = iota
	// KindNone is the explicit "no value" kind.
	KindNone
	// KindBool is the kind of boolean values.
	KindBool
	// KindNumber is the kind of integer and floating point values.
	KindNumber
	// KindString is the kind of text values.
	KindString
	// KindBytes is the kind of raw byte values.
	KindBytes
	// KindSeq is the kind of ordered sequences.
	KindSeq
	// KindMap is the kind of string-keyed maps.
	KindMap
)

// String returns the kind's name as used in error messages.
func (k ValueKind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// stringType is the safety tag carried by string values. It is assigned at
// construction and never changed afterwards.
type stringType int

const (
	stringPlain stringType = iota
	stringSafe
)

// Value is a dynamically-typed template value. The zero Value is undefined.
// Values are immutable after construction; methods never modify the receiver.
type Value struct {
	kind     ValueKind
	strVal   string
	strType  stringType
	boolVal  bool
	intVal   int64
	floatVal float64
	isFloat  bool
	bytesVal []byte
	seqVal   []Value
	mapVal   map[string]Value
}

// Undefined is the undefined value. It is also the zero Value.
var Undefined = Value{}

// None is the explicit "no value" value.
var None = Value{kind: KindNone}

// FromBool creates a boolean Value.
func FromBool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// FromInt creates an integer number Value.
func FromInt(i int64) Value {
	return Value{kind: KindNumber, intVal: i}
}

// FromFloat creates a floating point number Value.
func FromFloat(f float64) Value {
	return Value{kind: KindNumber, floatVal: f, isFloat: true}
}

// FromString creates a plain string Value. Plain strings are subject to
// auto-escaping when written to an output that has an escape mode selected.
func FromString(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// FromSafeString creates a string Value marked safe. Safe strings bypass
// auto-escaping entirely; the producer asserts that the text is already
// correctly escaped for the target output context.
func FromSafeString(s string) Value {
	return Value{kind: KindString, strVal: s, strType: stringSafe}
}

// FromBytes creates a raw bytes Value.
func FromBytes(b []byte) Value {
	return Value{kind: KindBytes, bytesVal: b}
}

// FromSlice creates a sequence Value.
func FromSlice(vals []Value) Value {
	return Value{kind: KindSeq, seqVal: vals}
}

// FromMap creates a map Value.
func FromMap(m map[string]Value) Value {
	return Value{kind: KindMap, mapVal: m}
}

// FromAny converts an arbitrary Go value into a Value. It covers the types
// produced by encoding/json unmarshaling into any, plus the common Go
// primitives; anything else falls back to its fmt string representation.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return None
	case Value:
		return t
	case bool:
		return FromBool(t)
	case int:
		return FromInt(int64(t))
	case int32:
		return FromInt(int64(t))
	case int64:
		return FromInt(t)
	case float32:
		return FromFloat(float64(t))
	case float64:
		return FromFloat(t)
	case string:
		return FromString(t)
	case []byte:
		return FromBytes(t)
	case []any:
		vals := make([]Value, len(t))
		for i, item := range t {
			vals[i] = FromAny(item)
		}
		return FromSlice(vals)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			m[k] = FromAny(item)
		}
		return FromMap(m)
	default:
		return FromString(fmt.Sprint(v))
	}
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind {
	return v.kind
}

// AsString returns the underlying text and true if the value is a string,
// otherwise an empty string and false.
func (v Value) AsString() (string, bool) {
	if v.kind == KindString {
		return v.strVal, true
	}
	return "", false
}

// IsSafe reports whether the value is a string marked safe by its producer.
func (v Value) IsSafe() bool {
	return v.kind == KindString && v.strType == stringSafe
}

// GetAttr looks up a named attribute on a map value. Lookups on missing
// keys and on non-map values return Undefined rather than failing, matching
// the engine's lenient attribute access.
func (v Value) GetAttr(name string) Value {
	if v.kind != KindMap {
		return Undefined
	}
	attr, ok := v.mapVal[name]
	if !ok {
		return Undefined
	}
	return attr
}

// String returns the value's default text representation. Undefined renders
// as the empty string so that missing variables disappear from output.
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return ""
	case KindNone:
		return "none"
	case KindBool:
		return strconv.FormatBool(v.boolVal)
	case KindNumber:
		if v.isFloat {
			return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
		}
		return strconv.FormatInt(v.intVal, 10)
	case KindString:
		return v.strVal
	case KindBytes:
		return string(v.bytesVal)
	case KindSeq:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range v.seqVal {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.repr())
		}
		b.WriteByte(']')
		return b.String()
	case KindMap:
		keys := make([]string, 0, len(v.mapVal))
		for k := range v.mapVal {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			b.WriteString(v.mapVal[k].repr())
		}
		b.WriteByte('}')
		return b.String()
	default:
		return ""
	}
}

// repr is the representation used for elements inside seq and map output,
// where strings are quoted to keep the structure readable.
func (v Value) repr() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindString:
		return strconv.Quote(v.strVal)
	case KindBytes:
		return strconv.Quote(string(v.bytesVal))
	default:
		return v.String()
	}
}

// jsonEncode serializes x without the HTML escaping encoding/json applies
// by default. The JSON escape mode promises JSON/YAML-safe output, not
// HTML-safe output, so embedded < > & stay raw.
func jsonEncode(x any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return nil, err
	}
	// Encode appends a newline the output must not carry.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalJSON serializes the value for the JSON escape mode. Undefined and
// none both serialize as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindUndefined, KindNone:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.boolVal)
	case KindNumber:
		if v.isFloat {
			return json.Marshal(v.floatVal)
		}
		return json.Marshal(v.intVal)
	case KindString:
		return jsonEncode(v.strVal)
	case KindBytes:
		return jsonEncode(string(v.bytesVal))
	case KindSeq:
		if v.seqVal == nil {
			return []byte("[]"), nil
		}
		return jsonEncode(v.seqVal)
	case KindMap:
		if v.mapVal == nil {
			return []byte("{}"), nil
		}
		return jsonEncode(v.mapVal)
	default:
		return nil, fmt.Errorf("cannot serialize value of kind %s", v.kind)
	}
}
