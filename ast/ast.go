// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a syntax tree for VIBE configuration values, and a
// parser that constructs syntax trees from VIBE source.
//
// A tree is owned by its root: every value reachable from an *Object or
// *Array belongs to that container and to no other. The parser only ever
// attaches freshly created values, so a parsed tree has no sharing and no
// cycles. Callers that build trees by hand should preserve this property.
package ast

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/vibe"
	"go4.org/mem"
)

// Kind identifies the concrete type of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullKind    Kind = iota // absence of a value
	IntegerKind             // 64-bit signed integer
	FloatKind               // IEEE 754 double
	BooleanKind             // true or false
	StringKind              // UTF-8 text
	ArrayKind               // ordered sequence of values
	ObjectKind              // ordered key-value members
)

var kindStr = [...]string{
	NullKind:    "null",
	IntegerKind: "integer",
	FloatKind:   "float",
	BooleanKind: "boolean",
	StringKind:  "string",
	ArrayKind:   "array",
	ObjectKind:  "object",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid"
	}
	return kindStr[k]
}

// A Value is an arbitrary VIBE value. The concrete type is one of Int, Float,
// Bool, String, *Array, *Object, or the type of Null.
type Value interface {
	// Kind reports the type of the value.
	Kind() Kind

	// String renders the value. Scalars are rendered as VIBE source text;
	// arrays and objects are summarized.
	String() string

	isValue()
}

// initialCapacity is the capacity allocated by the first insertion into an
// empty object or array. Subsequent growth doubles the capacity.
const initialCapacity = 16

// grow returns s with room for at least one more element, doubling its
// capacity if it is full.
func grow[T any](s []T) []T {
	if len(s) < cap(s) {
		return s
	}
	n := 2 * cap(s)
	if n == 0 {
		n = initialCapacity
	}
	out := make([]T, len(s), n)
	copy(out, s)
	return out
}

type null struct{}

// Null represents the absence of a value.
var Null Value = null{}

func (null) Kind() Kind     { return NullKind }
func (null) String() string { return "null" }
func (null) isValue()       {}

// An Int is an integer value.
type Int int64

func (Int) Kind() Kind       { return IntegerKind }
func (z Int) String() string { return strconv.FormatInt(int64(z), 10) }
func (Int) isValue()         {}

// A Float is a floating-point value.
type Float float64

func (Float) Kind() Kind { return FloatKind }
func (Float) isValue()   {}

// String renders f in decimal notation. The result always contains a decimal
// point, so that it scans as a floating-point number. Non-finite values are
// rendered as NaN, +Inf, or -Inf, which have no VIBE representation.
func (f Float) String() string {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// A Bool is a Boolean constant, true or false.
type Bool bool

func (Bool) Kind() Kind       { return BooleanKind }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (Bool) isValue()         {}

// A String is a string value.
type String string

func (String) Kind() Kind { return StringKind }
func (String) isValue()   {}

// String renders s as VIBE source text. The text is written bare if it scans
// as an identifier, and quoted otherwise.
func (s String) String() string {
	if NeedsQuote(string(s)) {
		return vibe.Quote(string(s))
	}
	return string(s)
}

// NeedsQuote reports whether s must be quoted to scan as a string. Only text
// that scans as an identifier may be written bare.
func NeedsQuote(s string) bool {
	return s == "true" || s == "false" || !vibe.IsIdentifier(mem.S(s))
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
// A nil value is replaced by Null.
func Field(key string, value Value) *Member {
	return &Member{Key: strings.Clone(key), Value: orNull(value)}
}

// An Object is a collection of key-value members. Keys are unique within an
// object, and members are kept in insertion order.
type Object struct {
	Members []*Member
}

// NewObject constructs an object with the given members. If the same key
// occurs more than once, the last value wins.
func NewObject(members ...*Member) *Object {
	o := new(Object)
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

func (*Object) Kind() Kind       { return ObjectKind }
func (o *Object) String() string { return fmt.Sprintf("Object(len=%d)", o.Len()) }
func (*Object) isValue()         {}

// Len reports the number of members in o. A nil object is empty.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// Find returns the member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	if o == nil {
		return nil
	}
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Get returns the value of the member of o with the given key, or nil if
// there is no such member. The result is owned by o.
func (o *Object) Get(key string) Value {
	if m := o.Find(key); m != nil {
		return m.Value
	}
	return nil
}

// Set sets the value of key in o to v. If key is already present, its old
// value is released and replaced; otherwise a new member is appended. The key
// is copied, and o takes ownership of v. A nil v is stored as Null.
// Set panics if o is nil.
func (o *Object) Set(key string, v Value) {
	v = orNull(v)
	if m := o.Find(key); m != nil {
		if old := m.Value; old != v {
			m.Value = v
			Release(old)
		}
		return
	}
	o.Members = append(grow(o.Members), &Member{Key: strings.Clone(key), Value: v})
}

// Delete removes the member with the given key from o, and reports whether
// it was present. The removed value is not released; ownership passes back
// to the caller.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	i := slices.IndexFunc(o.Members, func(m *Member) bool { return m.Key == key })
	if i < 0 {
		return false
	}
	o.Members = slices.Delete(o.Members, i, i+1)
	return true
}

// Keys returns the keys of o in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

// An Array is a sequence of values.
type Array struct {
	Values []Value
}

// NewArray constructs an array containing the given values, in order.
// Nil values are replaced by Null.
func NewArray(vs ...Value) *Array {
	a := new(Array)
	for _, v := range vs {
		a.Push(v)
	}
	return a
}

func (*Array) Kind() Kind       { return ArrayKind }
func (a *Array) String() string { return fmt.Sprintf("Array(len=%d)", a.Len()) }
func (*Array) isValue()         {}

// Len reports the number of elements in a. A nil array is empty.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Values)
}

// At returns the element of a at offset i, or nil if i is out of range.
// The result is owned by a.
func (a *Array) At(i int) Value {
	if i < 0 || i >= a.Len() {
		return nil
	}
	return a.Values[i]
}

// Push appends v to the end of a. The array takes ownership of v.
// A nil v is stored as Null. Push panics if a is nil.
func (a *Array) Push(v Value) {
	a.Values = append(grow(a.Values), orNull(v))
}

func orNull(v Value) Value {
	if v == nil {
		return Null
	}
	return v
}

// Release tears down the tree rooted at v. Every object and array reachable
// from v is emptied, depth first. After Release, any Value previously obtained
// from inside the tree must not be used; it may observe emptied containers.
// Releasing a scalar or nil is a no-op.
func Release(v Value) {
	stk := []Value{v}
	for len(stk) != 0 {
		cur := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		switch t := cur.(type) {
		case *Object:
			if t == nil {
				continue
			}
			for _, m := range t.Members {
				stk = append(stk, m.Value)
				m.Value = nil
			}
			t.Members = nil
		case *Array:
			if t == nil {
				continue
			}
			stk = append(stk, t.Values...)
			t.Values = nil
		}
	}
}

// ToValue converts a Go value into a Value. It supports nil, bool, signed
// and unsigned integers, floats, string, []byte (copied as a string), []any,
// map[string]any (members sorted by key), and Value, which is returned
// unchanged. ToValue panics for any other type.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case []byte:
		return String(t)
	case float32:
		return Float(t)
	case float64:
		return Float(t)
	case []any:
		a := NewArray()
		for _, elt := range t {
			a.Push(ToValue(elt))
		}
		return a
	case map[string]any:
		o := new(Object)
		for _, key := range slices.Sorted(maps.Keys(t)) {
			o.Set(key, ToValue(t[key]))
		}
		return o
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			panic(fmt.Sprintf("value %d out of range for Int", u))
		}
		return Int(u)
	}
	panic(fmt.Sprintf("unsupported type %T", v))
}
