package tree

// Kind identifies which of the JSON value cases a Value holds.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ArrayKind
	ObjectKind
)

var kindNames = [...]string{
	NullKind:   "null",
	BoolKind:   "boolean",
	NumberKind: "number",
	StringKind: "string",
	ArrayKind:  "array",
	ObjectKind: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return NullKind, false
}

// IsContainer reports whether values of this kind have children.
func (k Kind) IsContainer() bool {
	return k == ArrayKind || k == ObjectKind
}
