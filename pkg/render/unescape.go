package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Unescape decodes a string following JSON escaping rules: the short
// escapes \" \\ \/ \' \b \f \n \r \t and \uXXXX sequences, including
// UTF-16 surrogate pairs spread across two consecutive \u escapes. Any
// malformed sequence fails with an ErrBadEscape error; nothing is ever
// silently dropped. The input is assumed to be the body of a quoted
// string literal, without the surrounding quotes.
func Unescape(s string) (string, error) {
	u := unescaper{}
	return u.unescape(s)
}

// unescaper accumulates decoded output. pendingSurrogate holds a high
// surrogate unit waiting for its partner; zero means none is pending
// (only surrogate-range units are ever stored, so zero is unambiguous).
// A fresh unescaper is used per literal and discarded after the call.
type unescaper struct {
	out              strings.Builder
	pendingSurrogate uint16
}

func (u *unescaper) unescape(s string) (string, error) {
	chars := []rune(s)

	for i := 0; i < len(chars); i++ {
		c := chars[i]
		if c != '\\' {
			if err := u.pushRune(c); err != nil {
				return "", err
			}
			continue
		}

		i++
		if i >= len(chars) {
			return "", NewError(ErrBadEscape, "unexpected end of input after backslash")
		}
		switch d := chars[i]; d {
		case '"', '\\', '/', '\'':
			if err := u.pushRune(d); err != nil {
				return "", err
			}
		case 'b':
			if err := u.pushRune('\b'); err != nil {
				return "", err
			}
		case 'f':
			if err := u.pushRune('\f'); err != nil {
				return "", err
			}
		case 'n':
			if err := u.pushRune('\n'); err != nil {
				return "", err
			}
		case 'r':
			if err := u.pushRune('\r'); err != nil {
				return "", err
			}
		case 't':
			if err := u.pushRune('\t'); err != nil {
				return "", err
			}
		case 'u':
			val, err := parseUnit(chars[i+1:])
			if err != nil {
				return "", err
			}
			// A successful parse consumed four real digits.
			i += 4
			if err := u.pushUnit(val); err != nil {
				return "", err
			}
		default:
			return "", NewError(ErrBadEscape, fmt.Sprintf("unknown escape sequence \\%c", d))
		}
	}

	if u.pendingSurrogate != 0 {
		return "", NewError(ErrBadEscape, "unexpected end of input, expected low surrogate escape")
	}
	return u.out.String(), nil
}

// parseUnit reads the four hex digits of a \u escape. Short input is
// padded with NUL, which is not a hex digit, so a truncated escape fails
// the parse like any other bad digit.
func parseUnit(chars []rune) (uint16, error) {
	var hexnum [4]rune
	for j := range hexnum {
		if j < len(chars) {
			hexnum[j] = chars[j]
		}
	}
	val, err := strconv.ParseUint(string(hexnum[:]), 16, 16)
	if err != nil {
		return 0, NewError(ErrBadEscape, "invalid \\u escape")
	}
	return uint16(val), nil
}

// pushUnit appends a decoded UTF-16 code unit. Units outside the
// surrogate range decode directly; a first surrogate-range unit is held
// back until its partner arrives, and the pair decodes as one character.
func (u *unescaper) pushUnit(val uint16) error {
	surrogate := val >= 0xD800 && val <= 0xDFFF
	switch {
	case u.pendingSurrogate == 0 && !surrogate:
		u.out.WriteRune(rune(val))
	case u.pendingSurrogate == 0:
		u.pendingSurrogate = val
	case !surrogate:
		return NewError(ErrBadEscape, "expected low surrogate escape after high surrogate")
	default:
		r := utf16.DecodeRune(rune(u.pendingSurrogate), rune(val))
		if r == utf8.RuneError {
			return NewError(ErrBadEscape, "invalid surrogate pair")
		}
		u.out.WriteRune(r)
		u.pendingSurrogate = 0
	}
	return nil
}

// pushRune appends a literal character. A pending high surrogate must be
// completed by its low surrogate escape first; anything else is an error.
func (u *unescaper) pushRune(c rune) error {
	if u.pendingSurrogate != 0 {
		return NewError(ErrBadEscape, "expected low surrogate escape after high surrogate")
	}
	u.out.WriteRune(c)
	return nil
}
