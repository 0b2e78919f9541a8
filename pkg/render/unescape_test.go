package render

import "testing"

func TestUnescape(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"NoEscapes", "foobarbaz", "foobarbaz"},
		{"Empty", "", ""},
		{"ShortEscapes", `\t\b\f\r\n\\\/`, "\t\b\f\r\n\\/"},
		{"QuoteEscapes", `\"\'`, `"'`},
		{"UnicodeEscape", `foo\u2603bar`, "foo☃bar"},
		{"UnicodeEscapeASCII", `\u0041\u005a`, "AZ"},
		{"SurrogatePair", `\ud83d\udca9`, "\U0001F4A9"},
		{"SurrogatePairSurrounded", `x\ud83d\udca9y`, "x\U0001F4A9y"},
		{"MultiBytePassthrough", "snö ☃", "snö ☃"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Unescape(c.input)
			if err != nil {
				t.Fatalf("Unescape(%q) failed: %v", c.input, err)
			}
			if got != c.want {
				t.Errorf("Unescape(%q) = %q, want %q", c.input, got, c.want)
			}
		})
	}
}

func TestUnescapeErrors(t *testing.T) {
	inputs := []struct {
		name  string
		input string
	}{
		{"UnknownEscape", `\q`},
		{"TrailingBackslash", `\`},
		{"TruncatedUnicode", `\u26`},
		{"NonHexDigits", `\uzzzz`},
		{"LoneHighSurrogate", `\ud83d`},
		{"HighSurrogateThenLiteral", `\ud83dx`},
		{"HighSurrogateThenShortEscape", `\ud83d\n`},
		{"HighSurrogateThenNonSurrogate", `\ud83dA`},
		{"TwoLowSurrogates", `\udca9\udca9`},
	}
	for _, c := range inputs {
		t.Run(c.name, func(t *testing.T) {
			_, err := Unescape(c.input)
			if err == nil {
				t.Fatalf("Unescape(%q) succeeded, expected an error", c.input)
			}
			if !IsError(err, ErrBadEscape) {
				t.Errorf("Unescape(%q) returned %v, expected ErrBadEscape", c.input, err)
			}
		})
	}
}
