package tree

import (
	"iter"
	"slices"
)

// Array is the ordered child list of an array node.
type Array struct {
	items []Value
}

func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at index i; ok is false when i is out of range.
func (a *Array) At(i int) (Value, bool) {
	if i < 0 || i >= len(a.items) {
		return Value{}, false
	}
	return a.items[i], true
}

// Set overwrites the element at index i. It reports false when i is out of range.
func (a *Array) Set(i int, v Value) bool {
	if i < 0 || i >= len(a.items) {
		return false
	}
	a.items[i] = v
	return true
}

// Put stores v at index i, growing the array with nulls when i is past the end.
func (a *Array) Put(i int, v Value) {
	if i < 0 {
		return
	}
	for len(a.items) <= i {
		a.items = append(a.items, Null())
	}
	a.items[i] = v
}

func (a *Array) Append(items ...Value) {
	a.items = append(a.items, items...)
}

// RemoveAt deletes the element at index i, shifting later elements down.
func (a *Array) RemoveAt(i int) bool {
	if i < 0 || i >= len(a.items) {
		return false
	}
	a.items = slices.Delete(a.items, i, i+1)
	return true
}

// All yields index/element pairs in order.
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, item := range a.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Values returns a new slice holding the elements. The elements still alias
// the containers of the array.
func (a *Array) Values() []Value {
	return slices.Clone(a.items)
}

// Object is the member set of an object node. Keys enumerate in insertion order.
type Object struct {
	keys   []string
	fields map[string]Value
}

func newObject(capacity int) *Object {
	return &Object{
		keys:   make([]string, 0, capacity),
		fields: make(map[string]Value, capacity),
	}
}

func (o *Object) Len() int {
	return len(o.keys)
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Set stores v under key. A new key goes last; an existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

func (o *Object) Delete(key string) bool {
	if _, ok := o.fields[key]; !ok {
		return false
	}
	delete(o.fields, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in enumeration order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// All yields key/value pairs in enumeration order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range o.keys {
			if !yield(key, o.fields[key]) {
				return
			}
		}
	}
}
