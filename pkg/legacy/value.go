package legacy

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is a parsed legacy document node. Exactly one variant is
// populated, selected by Kind. Objects keep their members in insertion
// order with unique keys; a duplicate key in the input replaces the value
// at the key's original position (last value wins).
type Value struct {
	Kind Kind

	Bool    bool
	Num     float64
	Str     string
	Items   []*Value
	Members []Member
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Get returns the value for key in an object, or nil if the key is absent
// or the value is not an object.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != Object {
		return nil
	}
	for i := range v.Members {
		if v.Members[i].Key == key {
			return v.Members[i].Value
		}
	}
	return nil
}

// setMember inserts or replaces a key. Replacement keeps the key's
// original position so member order stays deterministic.
func (v *Value) setMember(key string, val *Value) {
	for i := range v.Members {
		if v.Members[i].Key == key {
			v.Members[i].Value = val
			return
		}
	}
	v.Members = append(v.Members, Member{Key: key, Value: val})
}

// Equal reports deep structural equality, including object member order.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case Null:
		return true
	case Bool:
		return v.Bool == other.Bool
	case Number:
		return v.Num == other.Num
	case String:
		return v.Str == other.Str
	case Array:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.Members) != len(other.Members) {
			return false
		}
		for i := range v.Members {
			if v.Members[i].Key != other.Members[i].Key {
				return false
			}
			if !v.Members[i].Value.Equal(other.Members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// IsString reports whether v is a string value.
func (v *Value) IsString() bool {
	return v != nil && v.Kind == String
}
