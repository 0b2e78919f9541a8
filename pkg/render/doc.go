/*
Package render provides the output-safety core of the tannin template
engine: context-aware escaping of values written during rendering, and
decoding of JSON-style escape sequences found in template string literals.

The central entry point is WriteEscaped, which takes a configured escape
mode (AutoEscape), a dynamically-typed Value, and an output sink, and
writes the value's text representation escaped for the selected target
format. Strings explicitly marked safe by their producer are never
re-escaped.

The package also contains the supporting pieces the rest of the engine is
built on: the Value type and its kind system, the engine's Error type and
kind taxonomy, the Unescape decoder for quoted string literals, the
FindByte/FindSubsequence scan helpers used by the interpolation scanner,
and the OnDrop cleanup guard.
*/
package render
