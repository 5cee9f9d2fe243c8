package legacy

import "testing"

func TestDecodeStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"\""`, `"`},
		{`"\\"`, `\`},
		{`"\/"`, `/`},
		{`"\b\f\n\r\t"`, "\b\f\n\r\t"},
		{`"A"`, "A"},
		{`"é"`, "é"},
		{`"a b"`, "a b"},
		{`"😀"`, "😀"},
		{`"héllo"`, "héllo"},
	}
	for _, tt := range tests {
		v := mustParse(t, tt.input)
		if v.Kind != String || v.Str != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.input, v.Str, tt.want)
		}
	}
}

func TestDecodeStringMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"unknown escape", `"\q"`, 1},
		{"short unicode escape", `"\u12"`, 1},
		{"non-hex unicode escape", `"\uzzzz"`, 1},
		{"unpaired high surrogate", `"\ud800"`, 1},
		{"high surrogate then text", `"\ud83dx"`, 1},
		{"lone low surrogate", `"\ude00"`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseError(t, tt.input)
			if perr.Kind != MalformedLiteral {
				t.Errorf("kind = %v, want MalformedLiteral", perr.Kind)
			}
			if perr.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", perr.Offset, tt.offset)
			}
		})
	}
}

func TestDecodeStringInvalidUTF8(t *testing.T) {
	_, err := Parse([]byte{'"', 0xff, 0xfe, '"'})
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if perr.Kind != MalformedLiteral {
		t.Errorf("kind = %v, want MalformedLiteral", perr.Kind)
	}
}

func TestDecodeNumberOverflow(t *testing.T) {
	perr := parseError(t, `1e999`)
	if perr.Kind != MalformedLiteral {
		t.Errorf("kind = %v, want MalformedLiteral", perr.Kind)
	}

	perr = parseError(t, `[-1e999]`)
	if perr.Kind != MalformedLiteral {
		t.Errorf("kind = %v, want MalformedLiteral", perr.Kind)
	}
}

func TestDecodeNumberNormalization(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{`0`, 0},
		{`-0`, 0},
		{`1e3`, 1000},
		{`1.5E+2`, 150},
		{`2.5e-1`, 0.25},
		{`1543959001933`, 1543959001933},
	}
	for _, tt := range tests {
		v := mustParse(t, tt.input)
		if v.Kind != Number || v.Num != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, v.Num, tt.want)
		}
	}
}
