package legacy

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// This file is the value materializer: it turns recognized scalar tokens
// into their final Go representation. Grammar recognition lives in the
// tokenizer and parser; everything here signals MalformedLiteral.

// decodeNumber normalizes a numeric literal to float64. The token's
// shape was validated by the tokenizer, so the only remaining failure is
// overflow.
func decodeNumber(tok token) (float64, *ParseError) {
	n, err := strconv.ParseFloat(string(tok.raw), 64)
	if err != nil {
		return 0, errAtToken(MalformedLiteral, tok, "numeric literal %s out of range", tok.raw)
	}
	return n, nil
}

// decodeString resolves escape sequences in a string token. raw excludes
// the surrounding quotes; absolute offsets inside the literal are
// tok.offset+1+i. Strings cannot span lines, so the token's line holds
// for every position inside it.
func decodeString(tok token) (string, *ParseError) {
	raw := tok.raw

	// Fast path: no escapes to resolve.
	if !strings.ContainsRune(string(raw), '\\') {
		if !utf8.Valid(raw) {
			return "", errAtToken(MalformedLiteral, tok, "string literal is not valid UTF-8")
		}
		return string(raw), nil
	}

	var b strings.Builder
	b.Grow(len(raw))

	errAt := func(i int, format string, args ...any) *ParseError {
		e := errAtToken(MalformedLiteral, tok, format, args...)
		e.Offset = tok.offset + 1 + i
		e.Col = tok.col + 1 + i
		return e
	}

	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			i++
			continue
		}

		esc := i
		i++ // backslash; the tokenizer guarantees one byte follows
		switch raw[i] {
		case '"':
			b.WriteByte('"')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		case '/':
			b.WriteByte('/')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'u':
			r, n, err := decodeUnicodeEscape(raw[i-1:], esc, errAt)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n - 1
		default:
			return "", errAt(esc, "invalid escape character %q", rune(raw[i]))
		}
	}

	s := b.String()
	if !utf8.ValidString(s) {
		return "", errAtToken(MalformedLiteral, tok, "string literal is not valid UTF-8")
	}
	return s, nil
}

// decodeUnicodeEscape decodes "\uXXXX" (possibly a surrogate pair) at
// the start of raw. esc is the index of the backslash inside the string
// contents, used for error positions. Returns the rune and the number of
// bytes consumed from raw.
func decodeUnicodeEscape(raw []byte, esc int, errAt func(int, string, ...any) *ParseError) (rune, int, *ParseError) {
	hex4 := func(at int) (rune, bool) {
		if at+4 > len(raw) {
			return 0, false
		}
		v, err := strconv.ParseUint(string(raw[at:at+4]), 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}

	r, ok := hex4(2)
	if !ok {
		return 0, 0, errAt(esc, `invalid \u escape, expected 4 hex digits`)
	}

	if !utf16.IsSurrogate(r) {
		return r, 6, nil
	}

	// High surrogate must be followed by an escaped low surrogate.
	if len(raw) >= 12 && raw[6] == '\\' && raw[7] == 'u' {
		if r2, ok := hex4(8); ok {
			if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
				return combined, 12, nil
			}
		}
	}

	return 0, 0, errAt(esc, `unpaired surrogate in \u escape`)
}
