package render

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestValueKinds(t *testing.T) {
	cases := []struct {
		v    Value
		kind ValueKind
	}{
		{Undefined, KindUndefined},
		{Value{}, KindUndefined},
		{None, KindNone},
		{FromBool(false), KindBool},
		{FromInt(1), KindNumber},
		{FromFloat(1.0), KindNumber},
		{FromString("x"), KindString},
		{FromSafeString("x"), KindString},
		{FromBytes([]byte("x")), KindBytes},
		{FromSlice(nil), KindSeq},
		{FromMap(nil), KindMap},
	}
	for _, c := range cases {
		if got := c.v.Kind(); got != c.kind {
			t.Errorf("Kind() = %s, want %s", got, c.kind)
		}
	}
}

func TestValueSafety(t *testing.T) {
	if FromString("<b>").IsSafe() {
		t.Error("plain string reported as safe")
	}
	if !FromSafeString("<b>").IsSafe() {
		t.Error("safe string not reported as safe")
	}
	if FromInt(1).IsSafe() {
		t.Error("non-string reported as safe")
	}

	s, ok := FromSafeString("<b>").AsString()
	if !ok || s != "<b>" {
		t.Errorf("AsString() = (%q, %v), want (\"<b>\", true)", s, ok)
	}
	if _, ok := FromInt(1).AsString(); ok {
		t.Error("AsString() succeeded on a number")
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Undefined, ""},
		{None, "none"},
		{FromBool(true), "true"},
		{FromInt(-12), "-12"},
		{FromFloat(2.5), "2.5"},
		{FromString("hi"), "hi"},
		{FromBytes([]byte("raw")), "raw"},
		{FromSlice([]Value{FromInt(1), FromString("a")}), `[1, "a"]`},
		{FromMap(map[string]Value{"b": FromInt(2), "a": FromInt(1)}), `{"a": 1, "b": 2}`},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() of %s = %q, want %q", c.v.Kind(), got, c.want)
		}
	}
}

func TestFromAny(t *testing.T) {
	t.Run("Primitives", func(t *testing.T) {
		if FromAny(nil).Kind() != KindNone {
			t.Error("nil did not convert to none")
		}
		if v := FromAny(3); v.Kind() != KindNumber || v.String() != "3" {
			t.Errorf("int conversion produced %s %q", v.Kind(), v.String())
		}
		if v := FromAny("s"); v.Kind() != KindString || v.IsSafe() {
			t.Error("string conversion wrong kind or safety")
		}
		if v := FromAny(FromSafeString("s")); !v.IsSafe() {
			t.Error("Value passthrough lost the safe marking")
		}
	})

	t.Run("JSONShapes", func(t *testing.T) {
		var data any
		if err := json.Unmarshal([]byte(`{"items": [1, "two", null], "ok": true}`), &data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		v := FromAny(data)
		if v.Kind() != KindMap {
			t.Fatalf("expected map, got %s", v.Kind())
		}
		items := v.GetAttr("items")
		if items.Kind() != KindSeq {
			t.Fatalf("expected seq, got %s", items.Kind())
		}
		if got := items.String(); got != `[1, "two", none]` {
			t.Errorf("items stringified as %q", got)
		}
		if v.GetAttr("ok").String() != "true" {
			t.Error("bool attribute lost in conversion")
		}
	})
}

func TestGetAttr(t *testing.T) {
	v := FromMap(map[string]Value{
		"user": FromMap(map[string]Value{"name": FromString("ada")}),
	})
	if got := v.GetAttr("user").GetAttr("name").String(); got != "ada" {
		t.Errorf("nested GetAttr = %q, want \"ada\"", got)
	}
	if v.GetAttr("missing").Kind() != KindUndefined {
		t.Error("missing key did not resolve to undefined")
	}
	if FromInt(1).GetAttr("x").Kind() != KindUndefined {
		t.Error("GetAttr on non-map did not resolve to undefined")
	}
}

func TestValueMarshalJSON(t *testing.T) {
	v := FromMap(map[string]Value{
		"none":  None,
		"undef": Undefined,
		"n":     FromInt(2),
		"f":     FromFloat(0.5),
		"s":     FromString("a"),
		"seq":   FromSlice([]Value{FromBool(true)}),
	})
	buf, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var round map[string]any
	if err := json.Unmarshal(buf, &round); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	want := map[string]any{
		"none":  nil,
		"undef": nil,
		"n":     float64(2),
		"f":     0.5,
		"s":     "a",
		"seq":   []any{true},
	}
	if !reflect.DeepEqual(round, want) {
		t.Errorf("round trip = %#v, want %#v", round, want)
	}
}
