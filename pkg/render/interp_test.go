package render

import (
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// checkOutput compares rendered output against the expectation and prints
// a unified diff on mismatch, which is much easier to read than two long
// quoted strings for multi-line templates.
func checkOutput(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Errorf("output mismatch:\n%s", diff)
}

func TestInterpolate(t *testing.T) {
	vars := map[string]Value{
		"name":   FromString("O'Neill & <friends>"),
		"markup": FromSafeString("<em>ok</em>"),
		"count":  FromInt(3),
		"user": FromMap(map[string]Value{
			"name": FromString("ada"),
			"tags": FromSlice([]Value{FromString("a"), FromString("b")}),
		}),
	}

	render := func(t *testing.T, src string, esc AutoEscape) string {
		t.Helper()
		var b strings.Builder
		if err := Interpolate(&b, src, vars, esc); err != nil {
			t.Fatalf("Interpolate(%q) failed: %v", src, err)
		}
		return b.String()
	}

	t.Run("PlainTextPassthrough", func(t *testing.T) {
		src := "no blocks here, just { braces } and text"
		checkOutput(t, render(t, src, AutoEscapeHTML), src)
	})

	t.Run("HTMLEscapedVariable", func(t *testing.T) {
		got := render(t, "<p>{{ name }}</p>", AutoEscapeHTML)
		checkOutput(t, got, "<p>O&#x27;Neill &amp; &lt;friends&gt;</p>")
	})

	t.Run("SafeStringNotReescaped", func(t *testing.T) {
		got := render(t, "{{ markup }}!", AutoEscapeHTML)
		checkOutput(t, got, "<em>ok</em>!")
	})

	t.Run("NoneModeVerbatim", func(t *testing.T) {
		got := render(t, "{{ name }}", AutoEscapeNone)
		checkOutput(t, got, "O'Neill & <friends>")
	})

	t.Run("StringLiteral", func(t *testing.T) {
		got := render(t, `{{ "a ☃ b\n" }}`, AutoEscapeNone)
		checkOutput(t, got, "a ☃ b\n")
	})

	t.Run("StringLiteralEscaped", func(t *testing.T) {
		got := render(t, `{{ "<raw>" }}`, AutoEscapeHTML)
		checkOutput(t, got, "&lt;raw&gt;")
	})

	t.Run("DottedPath", func(t *testing.T) {
		got := render(t, "hello {{ user.name }}", AutoEscapeHTML)
		checkOutput(t, got, "hello ada")
	})

	t.Run("MissingVariableRendersEmpty", func(t *testing.T) {
		got := render(t, "[{{ nothing }}]", AutoEscapeHTML)
		checkOutput(t, got, "[]")
	})

	t.Run("MissingPathRendersEmpty", func(t *testing.T) {
		got := render(t, "[{{ user.missing.deeper }}]", AutoEscapeHTML)
		checkOutput(t, got, "[]")
	})

	t.Run("JSONMode", func(t *testing.T) {
		got := render(t, "{{ user.tags }}", AutoEscapeJSON)
		checkOutput(t, got, `["a","b"]`)
	})

	t.Run("MultipleBlocks", func(t *testing.T) {
		got := render(t, "{{ count }} of {{ count }}", AutoEscapeHTML)
		checkOutput(t, got, "3 of 3")
	})

	t.Run("WhitespacePadding", func(t *testing.T) {
		got := render(t, "{{\tcount\n}}", AutoEscapeHTML)
		checkOutput(t, got, "3")
	})
}

func TestInterpolateErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind ErrorKind
	}{
		{"UnclosedBlock", "text {{ name", ErrSyntax},
		{"EmptyBlock", "{{ }}", ErrSyntax},
		{"InvalidExpression", "{{ 1name }}", ErrSyntax},
		{"TrailingDot", "{{ user. }}", ErrSyntax},
		{"UnterminatedLiteral", `{{ "abc }}`, ErrSyntax},
		{"BadLiteralEscape", `{{ "\q" }}`, ErrBadEscape},
		{"LoneSurrogateLiteral", `{{ "\ud83d" }}`, ErrBadEscape},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var b strings.Builder
			err := Interpolate(&b, c.src, nil, AutoEscapeHTML)
			if err == nil {
				t.Fatalf("Interpolate(%q) succeeded, expected an error", c.src)
			}
			if !IsError(err, c.kind) {
				t.Errorf("Interpolate(%q) returned %v, expected kind %s", c.src, err, c.kind)
			}
		})
	}

	t.Run("CustomModeSurfaces", func(t *testing.T) {
		var b strings.Builder
		err := Interpolate(&b, "{{ x }}", map[string]Value{"x": FromString("v")}, AutoEscapeCustom("tex"))
		if !IsError(err, ErrInvalidOperation) {
			t.Errorf("expected ErrInvalidOperation, got %v", err)
		}
	})
}
