// Package tree models JSON-shaped values and the paths that address them.
//
// A Value is a tagged union over null, boolean, number, string, array and
// object. Arrays and objects are held by reference: copying a Value copies the
// reference, so every copy observes mutations made through any other. Callers
// own the trees they build and must not mutate one tree from several
// goroutines at once.
package tree

// Value is a JSON-shaped tree node. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  *Array
	obj  *Object
}

func Null() Value {
	return Value{}
}

func FromBool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

func FromFloat(f float64) Value {
	return Value{kind: NumberKind, n: f}
}

func FromInt(i int) Value {
	return Value{kind: NumberKind, n: float64(i)}
}

func FromString(s string) Value {
	return Value{kind: StringKind, s: s}
}

// FromSlice builds an array node holding items in order.
func FromSlice(items ...Value) Value {
	arr := &Array{items: make([]Value, len(items))}
	copy(arr.items, items)
	return Value{kind: ArrayKind, arr: arr}
}

// KeyVal is one object member used by FromKeyVals.
type KeyVal struct {
	Key string
	Val Value
}

func KV(key string, val Value) KeyVal {
	return KeyVal{Key: key, Val: val}
}

// FromKeyVals builds an object node. Members keep their order; a repeated key
// overwrites the earlier value in place.
func FromKeyVals(kvs ...KeyVal) Value {
	obj := newObject(len(kvs))
	for _, kv := range kvs {
		obj.Set(kv.Key, kv.Val)
	}
	return Value{kind: ObjectKind, obj: obj}
}

// NewArray returns an empty array node.
func NewArray() Value {
	return Value{kind: ArrayKind, arr: &Array{}}
}

// NewObject returns an empty object node.
func NewObject() Value {
	return Value{kind: ObjectKind, obj: newObject(0)}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == NullKind
}

func (v Value) IsContainer() bool {
	return v.kind.IsContainer()
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == BoolKind
}

func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == NumberKind
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == StringKind
}

// Array returns the array container, or nil when v is not an array.
func (v Value) Array() *Array {
	if v.kind != ArrayKind {
		return nil
	}
	return v.arr
}

// Object returns the object container, or nil when v is not an object.
func (v Value) Object() *Object {
	if v.kind != ObjectKind {
		return nil
	}
	return v.obj
}

// Len is the number of children of a container, the byte length of a string
// and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case ArrayKind:
		return v.arr.Len()
	case ObjectKind:
		return v.obj.Len()
	case StringKind:
		return len(v.s)
	default:
		return 0
	}
}

// String renders v as compact JSON.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(data)
}

// Equal reports structural equality. Object key order is ignored.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case NullKind:
		return true
	case BoolKind:
		return a.b == b.b
	case NumberKind:
		return a.n == b.n
	case StringKind:
		return a.s == b.s
	case ArrayKind:
		if a.arr == b.arr {
			return true
		}
		if a.arr.Len() != b.arr.Len() {
			return false
		}
		for i := range a.arr.items {
			if !Equal(a.arr.items[i], b.arr.items[i]) {
				return false
			}
		}
		return true
	case ObjectKind:
		if a.obj == b.obj {
			return true
		}
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, key := range a.obj.keys {
			other, ok := b.obj.Get(key)
			if !ok || !Equal(a.obj.fields[key], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v sharing no containers with it.
func Clone(v Value) Value {
	switch v.kind {
	case ArrayKind:
		items := make([]Value, len(v.arr.items))
		for i, item := range v.arr.items {
			items[i] = Clone(item)
		}
		return Value{kind: ArrayKind, arr: &Array{items: items}}
	case ObjectKind:
		obj := newObject(v.obj.Len())
		for _, key := range v.obj.keys {
			obj.Set(key, Clone(v.obj.fields[key]))
		}
		return Value{kind: ObjectKind, obj: obj}
	default:
		return v
	}
}
