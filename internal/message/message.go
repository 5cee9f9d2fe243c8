// Package message decodes replication-log messages from parsed legacy
// documents. A log item is an envelope around a signed value:
//
//	{"key": "%...sha256", "value": {author, sequence, timestamp, content, ...}, "timestamp": ...}
//
// Content is either an object (with a "type" member) or, for private
// messages, a base64 string suffixed with ".box".
package message

import (
	"strings"

	"github.com/offlog/legacyview/pkg/legacy"
)

// Message is a decoded log item. AssertedAt is the timestamp claimed by
// the author inside the signed value; ReceivedAt is the envelope
// timestamp set on ingestion.
type Message struct {
	Key        string
	Author     string
	Sequence   int64
	AssertedAt float64
	ReceivedAt float64
	Content    *legacy.Value
	Signature  string
}

// Parse decodes a raw log item.
func Parse(raw []byte) (*Message, error) {
	v, err := legacy.Parse(raw)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return Decode(v)
}

// Decode extracts the message fields from a parsed document.
func Decode(v *legacy.Value) (*Message, error) {
	key, err := requireString(v, "key")
	if err != nil {
		return nil, err
	}

	val := v.Get("value")
	if val == nil {
		return nil, &FieldMissingError{Field: "value"}
	}
	if val.Kind != legacy.Object {
		return nil, &FieldTypeError{Field: "value", Want: "object", Got: val.Kind.String()}
	}

	author, err := requireString(val, "value.author")
	if err != nil {
		return nil, err
	}
	seq, err := requireNumber(val, "value.sequence")
	if err != nil {
		return nil, err
	}
	asserted, err := requireNumber(val, "value.timestamp")
	if err != nil {
		return nil, err
	}

	content := val.Get("content")
	if content == nil {
		return nil, &FieldMissingError{Field: "value.content"}
	}

	received, err := requireNumber(v, "timestamp")
	if err != nil {
		return nil, err
	}

	m := &Message{
		Key:        key,
		Author:     author,
		Sequence:   int64(seq),
		AssertedAt: asserted,
		ReceivedAt: received,
		Content:    content,
	}
	if sig := val.Get("signature"); sig.IsString() {
		m.Signature = sig.Str
	}
	return m, nil
}

// ContentType returns the content's "type" member, or "" for private
// (string) content and typeless objects.
func (m *Message) ContentType() string {
	if m.Content == nil || m.Content.Kind != legacy.Object {
		return ""
	}
	if t := m.Content.Get("type"); t.IsString() {
		return t.Str
	}
	return ""
}

// IsPrivate reports whether the content is sealed: a base64 string with
// a ".box" suffix instead of a content object.
func (m *Message) IsPrivate() bool {
	return m.Content.IsString() && strings.HasSuffix(m.Content.Str, ".box")
}

// requireString resolves the last path segment against v. The full path
// is only used for error messages.
func requireString(v *legacy.Value, path string) (string, error) {
	field := v.Get(lastSegment(path))
	if field == nil {
		return "", &FieldMissingError{Field: path}
	}
	if field.Kind != legacy.String {
		return "", &FieldTypeError{Field: path, Want: "string", Got: field.Kind.String()}
	}
	return field.Str, nil
}

func requireNumber(v *legacy.Value, path string) (float64, error) {
	field := v.Get(lastSegment(path))
	if field == nil {
		return 0, &FieldMissingError{Field: path}
	}
	if field.Kind != legacy.Number {
		return 0, &FieldTypeError{Field: path, Want: "number", Got: field.Kind.String()}
	}
	return field.Num, nil
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
