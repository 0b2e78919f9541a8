package render

import (
	"fmt"
	"io"
	"strings"
)

type escapeMode int

const (
	modeNone escapeMode = iota
	modeHTML
	modeJSON
	modeCustom
)

// AutoEscape selects the escaping applied to values written during
// rendering. Which mode applies to a given template is decided by the
// environment configuration, outside this package; WriteEscaped only
// implements the transformation for an already-selected mode.
//
// The fixed modes are comparable with ==. Custom modes carry an opaque
// name and cannot be handled by the default dispatcher; they exist so
// that a caller-supplied formatter can intercept them before dispatch.
type AutoEscape struct {
	mode escapeMode
	name string
}

var (
	// AutoEscapeNone applies no escaping.
	AutoEscapeNone = AutoEscape{mode: modeNone}
	// AutoEscapeHTML escapes the characters < > & " ' / as HTML entities.
	AutoEscapeHTML = AutoEscape{mode: modeHTML}
	// AutoEscapeJSON serializes values to JSON. The output is safe for
	// JSON, JavaScript and YAML contexts; embedded < and > are kept as-is,
	// so it is not HTML-safe.
	AutoEscapeJSON = AutoEscape{mode: modeJSON}
)

// AutoEscapeCustom creates a custom escape mode with the given name. The
// default dispatcher rejects custom modes with ErrInvalidOperation; a
// custom formatter has to handle them before WriteEscaped is reached.
func AutoEscapeCustom(name string) AutoEscape {
	return AutoEscape{mode: modeCustom, name: name}
}

// IsNone reports whether the mode applies no escaping.
func (a AutoEscape) IsNone() bool {
	return a.mode == modeNone
}

// CustomName returns the name of a custom mode and true, or "" and false
// for the fixed modes.
func (a AutoEscape) CustomName() (string, bool) {
	if a.mode == modeCustom {
		return a.name, true
	}
	return "", false
}

// String returns the mode's text tag as used in configuration and the
// template store: "none", "html", "json" or "custom:<name>".
func (a AutoEscape) String() string {
	switch a.mode {
	case modeNone:
		return "none"
	case modeHTML:
		return "html"
	case modeJSON:
		return "json"
	default:
		return "custom:" + a.name
	}
}

// ParseAutoEscape parses a mode's text tag back into an AutoEscape. It is
// the inverse of String.
func ParseAutoEscape(s string) (AutoEscape, error) {
	switch s {
	case "none":
		return AutoEscapeNone, nil
	case "html":
		return AutoEscapeHTML, nil
	case "json":
		return AutoEscapeJSON, nil
	}
	if name, ok := strings.CutPrefix(s, "custom:"); ok && name != "" {
		return AutoEscapeCustom(name), nil
	}
	return AutoEscape{}, NewError(ErrInvalidOperation, fmt.Sprintf("unknown escape mode %q", s))
}

// WriteEscaped writes the value's text representation to w, escaped for
// the selected mode. Strings marked safe by their producer are written
// unmodified regardless of mode, as is every string when the mode is
// AutoEscapeNone; this fast path performs a single raw write. On failure
// the sink may already contain a partial write; the sink is append-only
// and nothing is rolled back.
func WriteEscaped(w io.Writer, esc AutoEscape, v Value) error {
	if s, ok := v.AsString(); ok {
		if v.IsSafe() || esc.mode == modeNone {
			return writeString(w, s)
		}
	}

	switch esc.mode {
	case modeNone:
		return writeString(w, v.String())
	case modeHTML:
		switch v.Kind() {
		case KindUndefined, KindNone, KindBool, KindNumber:
			// These kinds cannot contain reserved characters.
			return writeString(w, v.String())
		}
		if s, ok := v.AsString(); ok {
			return EscapeHTML(w, s)
		}
		return EscapeHTML(w, v.String())
	case modeJSON:
		buf, err := jsonEncode(v)
		if err != nil {
			return NewError(ErrBadSerialization, "unable to format value to JSON").WithSource(err)
		}
		if _, err := w.Write(buf); err != nil {
			return NewError(ErrWriteFailure, "failed to write to output").WithSource(err)
		}
		return nil
	default:
		return NewError(ErrInvalidOperation,
			fmt.Sprintf("default formatter does not know how to format to custom format %q", esc.name))
	}
}

// EscapeHTML writes s to w with the six HTML-reserved characters replaced
// by entities: < > & " ' / become &lt; &gt; &amp; &quot; &#x27; &#x2f;.
//
// The scan is byte-wise: all six targets are single-byte ASCII, and UTF-8
// continuation and lead bytes of non-ASCII code points never collide with
// ASCII byte values, so multi-byte sequences pass through untouched.
// Unescaped runs are flushed in one write each instead of per character.
func EscapeHTML(w io.Writer, s string) error {
	start := 0
	for i := 0; i < len(s); i++ {
		var entity string
		switch s[i] {
		case '<':
			entity = "&lt;"
		case '>':
			entity = "&gt;"
		case '&':
			entity = "&amp;"
		case '"':
			entity = "&quot;"
		case '\'':
			entity = "&#x27;"
		case '/':
			entity = "&#x2f;"
		default:
			continue
		}
		if start < i {
			if err := writeString(w, s[start:i]); err != nil {
				return err
			}
		}
		if err := writeString(w, entity); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(s) {
		return writeString(w, s[start:])
	}
	return nil
}

// HTMLEscapeString returns s with the six HTML-reserved characters
// replaced by entities. If no replacement is needed, s is returned as-is
// without allocating.
func HTMLEscapeString(s string) string {
	if strings.IndexAny(s, `<>&"'/`) < 0 {
		return s
	}
	var b strings.Builder
	// strings.Builder writes cannot fail.
	_ = EscapeHTML(&b, s)
	return b.String()
}

// writeString writes s to w, converting a sink failure into the engine's
// error type. Sink errors are never discarded.
func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return NewError(ErrWriteFailure, "failed to write to output").WithSource(err)
	}
	return nil
}
