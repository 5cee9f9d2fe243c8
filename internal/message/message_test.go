package message

import (
	"errors"
	"testing"

	"github.com/offlog/legacyview/pkg/legacy"
)

const fixture = `{
  "key": "%KKPLj1tWfuVhCvgJz2hG/nIsVzmBRzUJaqHv+sb+n1c=.sha256",
  "value": {
    "previous": "%xsMQA2GrsZew0GSxmDSBaoxDafVaUJ07YVaDGcp65a4=.sha256",
    "author": "@QlCTpvY7p9ty2yOFrv1WU1AE88aoQc4Y7wYal7PFc+w=.ed25519",
    "sequence": 4797,
    "timestamp": 1543958997985,
    "hash": "sha256",
    "content": {
      "type": "post",
      "root": "%9EdpeKC5CgzpQs/x99CcnbD3n6ugUlwm19F7ZTqMh5w=.sha256",
      "branch": "%sQV8QpyUNvh7fBAs2ts00Qo2gj44CQBmwonWJzm+AeM=.sha256",
      "text": "hello thread"
    },
    "signature": "mi5j/buYZdsiH8l6CVWRqdBKe+0UG6tVTOoVVjMhYl38Nkmb8wiIEfe7zu0JWuiHkaAIq+0/ZqYr6aV14j4fAw==.sig.ed25519"
  },
  "timestamp": 1543959001933
}`

func TestParseMessage(t *testing.T) {
	m, err := Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Key != "%KKPLj1tWfuVhCvgJz2hG/nIsVzmBRzUJaqHv+sb+n1c=.sha256" {
		t.Errorf("Key = %q", m.Key)
	}
	if m.Author != "@QlCTpvY7p9ty2yOFrv1WU1AE88aoQc4Y7wYal7PFc+w=.ed25519" {
		t.Errorf("Author = %q", m.Author)
	}
	if m.Sequence != 4797 {
		t.Errorf("Sequence = %d, want 4797", m.Sequence)
	}
	if m.AssertedAt != 1543958997985 {
		t.Errorf("AssertedAt = %v", m.AssertedAt)
	}
	if m.ReceivedAt != 1543959001933 {
		t.Errorf("ReceivedAt = %v", m.ReceivedAt)
	}
	if got := m.ContentType(); got != "post" {
		t.Errorf("ContentType = %q, want \"post\"", got)
	}
	if m.IsPrivate() {
		t.Error("IsPrivate = true for plaintext content")
	}
	if m.Signature == "" {
		t.Error("Signature not captured")
	}
}

func TestParseMessageInvalidInput(t *testing.T) {
	_, err := Parse([]byte(`{"key": truncated`))
	if err == nil {
		t.Fatal("expected error")
	}
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("error is %T, want *DecodeError", err)
	}
	var perr *legacy.ParseError
	if !errors.As(err, &perr) {
		t.Error("DecodeError should wrap the underlying *legacy.ParseError")
	}
}

func TestDecodeMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"no key", `{"value": {"author":"@a","sequence":1,"timestamp":2,"content":{}}, "timestamp": 3}`, "key"},
		{"no value", `{"key": "%k", "timestamp": 3}`, "value"},
		{"no author", `{"key": "%k", "value": {"sequence":1,"timestamp":2,"content":{}}, "timestamp": 3}`, "value.author"},
		{"no content", `{"key": "%k", "value": {"author":"@a","sequence":1,"timestamp":2}, "timestamp": 3}`, "value.content"},
		{"no envelope timestamp", `{"key": "%k", "value": {"author":"@a","sequence":1,"timestamp":2,"content":{}}}`, "timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			var ferr *FieldMissingError
			if !errors.As(err, &ferr) {
				t.Fatalf("error = %v, want *FieldMissingError", err)
			}
			if ferr.Field != tt.field {
				t.Errorf("field = %q, want %q", ferr.Field, tt.field)
			}
		})
	}
}

func TestDecodeWrongFieldType(t *testing.T) {
	_, err := Parse([]byte(`{"key": "%k", "value": {"author": 7, "sequence":1,"timestamp":2,"content":{}}, "timestamp": 3}`))
	var terr *FieldTypeError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *FieldTypeError", err)
	}
	if terr.Field != "value.author" || terr.Want != "string" {
		t.Errorf("unexpected error detail: %+v", terr)
	}
}

func TestPrivateContent(t *testing.T) {
	m, err := Parse([]byte(`{"key": "%k", "value": {"author":"@a","sequence":1,"timestamp":2,"content":"c2VhbGVk.box"}, "timestamp": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsPrivate() {
		t.Error("IsPrivate = false for .box content")
	}
	if got := m.ContentType(); got != "" {
		t.Errorf("ContentType = %q, want empty for private content", got)
	}
}

func TestFindByKey(t *testing.T) {
	v, err := legacy.Parse([]byte(`{"key": 1, "value": {"link": "hello", "array": [{"link": "piet"}], "deeper": {"link": "world"}}}`))
	if err != nil {
		t.Fatal(err)
	}

	found := FindByKey(v, "link")
	if len(found) != 3 {
		t.Fatalf("found %d values, want 3", len(found))
	}
	want := []string{"hello", "piet", "world"}
	for i, w := range want {
		if found[i].Str != w {
			t.Errorf("found[%d] = %q, want %q", i, found[i].Str, w)
		}
	}
}

func TestLinksSkipsNonStrings(t *testing.T) {
	m, err := Parse([]byte(`{"key": "%k", "value": {"author":"@a","sequence":1,"timestamp":2,"content":{"type":"post","mentions":[{"link":"@x"},{"link":42}]}}, "timestamp": 3}`))
	if err != nil {
		t.Fatal(err)
	}

	links := m.Links()
	if len(links) != 1 || links[0] != "@x" {
		t.Errorf("Links = %v, want [@x]", links)
	}
}
