package legacy

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Encode writes the canonical serialization of v: compact, object
// members in insertion order, numbers in shortest round-trip form. For
// every value produced by Parse, Parse(Encode(v)) yields a tree equal to
// v. Encoding fails only for trees built by hand with non-finite numbers,
// which the grammar cannot represent.
func Encode(v *Value) ([]byte, error) {
	out, err := appendValue(nil, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func appendValue(out []byte, v *Value) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot encode nil value")
	}

	switch v.Kind {
	case Null:
		return append(out, "null"...), nil

	case Bool:
		if v.Bool {
			return append(out, "true"...), nil
		}
		return append(out, "false"...), nil

	case Number:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return nil, fmt.Errorf("cannot encode non-finite number %v", v.Num)
		}
		return appendNumber(out, v.Num), nil

	case String:
		return appendString(out, v.Str), nil

	case Array:
		out = append(out, '[')
		for i, item := range v.Items {
			if i > 0 {
				out = append(out, ',')
			}
			var err error
			out, err = appendValue(out, item)
			if err != nil {
				return nil, err
			}
		}
		return append(out, ']'), nil

	case Object:
		out = append(out, '{')
		for i, m := range v.Members {
			if i > 0 {
				out = append(out, ',')
			}
			out = appendString(out, m.Key)
			out = append(out, ':')
			var err error
			out, err = appendValue(out, m.Value)
			if err != nil {
				return nil, err
			}
		}
		return append(out, '}'), nil
	}

	return nil, fmt.Errorf("cannot encode value of kind %d", v.Kind)
}

// appendNumber uses the shortest representation that parses back to the
// same float64. Integral values within float64's exact range are written
// without a fraction or exponent.
func appendNumber(out []byte, n float64) []byte {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.AppendInt(out, int64(n), 10)
	}
	return strconv.AppendFloat(out, n, 'g', -1, 64)
}

const hexDigits = "0123456789abcdef"

func appendString(out []byte, s string) []byte {
	out = append(out, '"')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			out = append(out, '\\', '"')
			i++
		case c == '\\':
			out = append(out, '\\', '\\')
			i++
		case c == '\n':
			out = append(out, '\\', 'n')
			i++
		case c == '\r':
			out = append(out, '\\', 'r')
			i++
		case c == '\t':
			out = append(out, '\\', 't')
			i++
		case c == '\b':
			out = append(out, '\\', 'b')
			i++
		case c == '\f':
			out = append(out, '\\', 'f')
			i++
		case c < 0x20:
			out = append(out, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			i++
		default:
			_, size := utf8.DecodeRuneInString(s[i:])
			out = append(out, s[i:i+size]...)
			i += size
		}
	}
	return append(out, '"')
}
