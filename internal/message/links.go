package message

import "github.com/offlog/legacyview/pkg/legacy"

// FindByKey collects every value stored under key anywhere in the tree,
// in document order. Containers are searched recursively; an object's
// own member is collected before its children are descended into.
func FindByKey(v *legacy.Value, key string) []*legacy.Value {
	var found []*legacy.Value
	findByKey(v, key, &found)
	return found
}

func findByKey(v *legacy.Value, key string, found *[]*legacy.Value) {
	if v == nil {
		return
	}

	if hit := v.Get(key); hit != nil {
		*found = append(*found, hit)
	}

	switch v.Kind {
	case legacy.Array:
		for _, item := range v.Items {
			findByKey(item, key, found)
		}
	case legacy.Object:
		for _, m := range v.Members {
			switch m.Value.Kind {
			case legacy.Object, legacy.Array:
				findByKey(m.Value, key, found)
			}
		}
	}
}

// Links returns the string-valued "link" references in the message
// content. Non-string links (rich link objects) are skipped.
func (m *Message) Links() []string {
	var links []string
	for _, v := range FindByKey(m.Content, "link") {
		if v.IsString() {
			links = append(links, v.Str)
		}
	}
	return links
}
