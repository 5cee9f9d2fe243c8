package legacy

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string) *Value {
	t.Helper()
	v, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return v
}

func parseError(t *testing.T, input string) *ParseError {
	t.Helper()
	_, err := Parse([]byte(input))
	if err == nil {
		t.Fatalf("Parse(%q): expected error", input)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse(%q): error is %T, want *ParseError", input, err)
	}
	return perr
}

func TestParseEmptyInput(t *testing.T) {
	perr := parseError(t, "")
	if perr.Kind != SyntaxError {
		t.Errorf("kind = %v, want SyntaxError", perr.Kind)
	}
	if perr.Offset != 0 {
		t.Errorf("offset = %d, want 0", perr.Offset)
	}
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input string
		check func(*Value) bool
	}{
		{`null`, func(v *Value) bool { return v.Kind == Null }},
		{`true`, func(v *Value) bool { return v.Kind == Bool && v.Bool }},
		{`false`, func(v *Value) bool { return v.Kind == Bool && !v.Bool }},
		{`42`, func(v *Value) bool { return v.Kind == Number && v.Num == 42 }},
		{`-2.5e3`, func(v *Value) bool { return v.Kind == Number && v.Num == -2500 }},
		{`"hello"`, func(v *Value) bool { return v.Kind == String && v.Str == "hello" }},
		{`""`, func(v *Value) bool { return v.Kind == String && v.Str == "" }},
	}
	for _, tt := range tests {
		v := mustParse(t, tt.input)
		if !tt.check(v) {
			t.Errorf("Parse(%q) = %+v", tt.input, v)
		}
	}
}

func TestParseNestedShape(t *testing.T) {
	v := mustParse(t, `{"a": {"b": [1, 2]}}`)

	if v.Kind != Object || len(v.Members) != 1 {
		t.Fatalf("top level = %+v, want object with one member", v)
	}
	inner := v.Get("a")
	if inner == nil || inner.Kind != Object {
		t.Fatalf("member a = %+v, want object", inner)
	}
	arr := inner.Get("b")
	if arr == nil || arr.Kind != Array || len(arr.Items) != 2 {
		t.Fatalf("member a.b = %+v, want two-item array", arr)
	}
	if arr.Items[0].Num != 1 || arr.Items[1].Num != 2 {
		t.Errorf("a.b items = %v %v, want 1 2", arr.Items[0].Num, arr.Items[1].Num)
	}
}

func TestParseStrayClosingDelimiter(t *testing.T) {
	perr := parseError(t, `42]`)
	if perr.Kind != SyntaxError {
		t.Errorf("kind = %v, want SyntaxError", perr.Kind)
	}
	if perr.Offset != 2 {
		t.Errorf("offset = %d, want 2", perr.Offset)
	}

	perr = parseError(t, `]`)
	if perr.Kind != SyntaxError || perr.Offset != 0 {
		t.Errorf("got %v at offset %d, want SyntaxError at 0", perr.Kind, perr.Offset)
	}
}

func TestParseWhitespaceInsignificant(t *testing.T) {
	a := mustParse(t, `{"a":1,"b":[2,3]}`)
	b := mustParse(t, "{ \"a\" : 1 ,\n  \"b\" : [ 2 , 3 ]\n}")

	if !a.Equal(b) {
		t.Error("values differing only in whitespace are not equal")
	}
}

func TestParseDeterministic(t *testing.T) {
	input := `{"key":"%abc=.sha256","value":{"seq":4797,"ok":[true,null]}}`
	a := mustParse(t, input)
	b := mustParse(t, input)
	if !a.Equal(b) {
		t.Error("parsing the same input twice produced unequal trees")
	}
}

func TestParseDuplicateKeysLastWins(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":2,"a":3}`)

	if len(v.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(v.Members))
	}
	// The duplicate keeps its original position with the new value.
	if v.Members[0].Key != "a" || v.Members[0].Value.Num != 3 {
		t.Errorf("member 0 = %s:%v, want a:3", v.Members[0].Key, v.Members[0].Value.Num)
	}
	if v.Members[1].Key != "b" || v.Members[1].Value.Num != 2 {
		t.Errorf("member 1 = %s:%v, want b:2", v.Members[1].Key, v.Members[1].Value.Num)
	}
}

func TestParseTruncatedInput(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{`[1, 2`, SyntaxError},
		{`{"a":`, SyntaxError},
		{`{"a"`, SyntaxError},
		{`{"a": 1`, SyntaxError},
		{`{`, SyntaxError},
		{`[`, SyntaxError},
		{`"abc`, UnterminatedLiteral},
		{`["ab`, UnterminatedLiteral},
	}
	for _, tt := range tests {
		perr := parseError(t, tt.input)
		if perr.Kind != tt.kind {
			t.Errorf("Parse(%q) kind = %v, want %v", tt.input, perr.Kind, tt.kind)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []string{
		`[1,]`,
		`{,}`,
		`{"a" 1}`,
		`{"a":1 "b":2}`,
		`{1: 2}`,
		`[1 2]`,
		`{"a":1,}`,
		`true false`,
	}
	for _, input := range tests {
		perr := parseError(t, input)
		if perr.Kind != SyntaxError {
			t.Errorf("Parse(%q) kind = %v, want SyntaxError", input, perr.Kind)
		}
	}
}

func TestParseUnexpectedCharacterOffset(t *testing.T) {
	perr := parseError(t, `[1, @]`)
	if perr.Kind != UnexpectedCharacter {
		t.Errorf("kind = %v, want UnexpectedCharacter", perr.Kind)
	}
	if perr.Offset != 4 {
		t.Errorf("offset = %d, want 4", perr.Offset)
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := strings.Repeat("[", maxDepth+10)
	perr := parseError(t, deep)
	if perr.Kind != SyntaxError {
		t.Errorf("kind = %v, want SyntaxError", perr.Kind)
	}

	// One below the limit still parses.
	ok := strings.Repeat("[", maxDepth) + "1" + strings.Repeat("]", maxDepth)
	if _, err := Parse([]byte(ok)); err != nil {
		t.Errorf("nesting at the limit failed: %v", err)
	}
}

func TestParseErrorPosition(t *testing.T) {
	perr := parseError(t, "{\n  \"a\": 1,\n  oops\n}")
	if perr.Line != 3 {
		t.Errorf("line = %d, want 3", perr.Line)
	}
	if perr.Col != 3 {
		t.Errorf("col = %d, want 3", perr.Col)
	}
}
