package render

import (
	"fmt"
	"io"
	"strings"
)

// Variable block delimiters. These are fixed; tannin does not support
// reconfigurable delimiter syntax.
var (
	openDelim  = []byte("{{")
	closeDelim = []byte("}}")
)

// Interpolate scans src for {{ ... }} variable blocks, copies the literal
// text between them verbatim, and writes each resolved value through
// WriteEscaped with the selected escape mode.
//
// A block holds either a variable reference, resolved against vars, or a
// double-quoted string literal, decoded with Unescape. Variable references
// may use dotted paths ("user.name") to descend into map values; missing
// names resolve to Undefined, which renders as empty output. Unterminated
// blocks and empty or malformed expressions fail with an ErrSyntax error.
//
// This is deliberately substitution only. Tags, filters and expressions
// belong to the template compiler, not to the output-safety core.
func Interpolate(w io.Writer, src string, vars map[string]Value, esc AutoEscape) error {
	rest := []byte(src)
	for {
		start := FindSubsequence(rest, openDelim)
		if start < 0 {
			if len(rest) > 0 {
				return writeString(w, string(rest))
			}
			return nil
		}
		if start > 0 {
			if err := writeString(w, string(rest[:start])); err != nil {
				return err
			}
		}
		rest = rest[start+len(openDelim):]

		end := FindSubsequence(rest, closeDelim)
		if end < 0 {
			return NewError(ErrSyntax, "unclosed variable block")
		}
		expr := strings.TrimSpace(string(rest[:end]))
		rest = rest[end+len(closeDelim):]

		v, err := resolveExpr(expr, vars)
		if err != nil {
			return err
		}
		if err := WriteEscaped(w, esc, v); err != nil {
			return err
		}
	}
}

// resolveExpr evaluates the contents of a single variable block.
func resolveExpr(expr string, vars map[string]Value) (Value, error) {
	if expr == "" {
		return Undefined, NewError(ErrSyntax, "empty variable block")
	}
	if expr[0] == '"' {
		if len(expr) < 2 || expr[len(expr)-1] != '"' {
			return Undefined, NewError(ErrSyntax, "unterminated string literal")
		}
		decoded, err := Unescape(expr[1 : len(expr)-1])
		if err != nil {
			return Undefined, err
		}
		return FromString(decoded), nil
	}
	if !isIdentPath(expr) {
		return Undefined, NewError(ErrSyntax, fmt.Sprintf("invalid expression %q", expr))
	}
	return lookupPath(expr, vars), nil
}

// lookupPath resolves a dotted variable path against vars, descending
// through map values one segment at a time.
func lookupPath(path string, vars map[string]Value) Value {
	rest := []byte(path)

	dot := FindByte(rest, '.')
	var v Value
	if dot < 0 {
		return vars[path]
	}
	v = vars[string(rest[:dot])]
	rest = rest[dot+1:]

	for {
		dot = FindByte(rest, '.')
		if dot < 0 {
			return v.GetAttr(string(rest))
		}
		v = v.GetAttr(string(rest[:dot]))
		rest = rest[dot+1:]
	}
}

// isIdentPath reports whether s is a dotted chain of identifiers made of
// letters, digits and underscores, with no empty segments.
func isIdentPath(s string) bool {
	segStart := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.':
			if segStart {
				return false
			}
			segStart = true
		case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			segStart = false
		case c >= '0' && c <= '9':
			// Identifiers cannot start with a digit.
			if segStart {
				return false
			}
		default:
			return false
		}
	}
	return !segStart
}
