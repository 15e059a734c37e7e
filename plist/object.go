// Package plist implements the object model for Apple's property list
// data exchange format.
package plist

import (
	"encoding/base64"
	"time"
)

// A Type identifies the kind of value an Object holds.
type Type int

const (
	TypeNull Type = iota
	TypeBoolean
	TypeInteger
	TypeReal
	TypeString
	TypeData
	TypeDate
	TypeArray
	TypeDictionary
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	case TypeData:
		return "data"
	case TypeDate:
		return "date"
	case TypeArray:
		return "array"
	case TypeDictionary:
		return "dictionary"
	}
	return "unknown"
}

// An Object is a single node in a plist tree. The set of implementations
// is closed: Null, Boolean, Integer, Real, String, Data, Date, Array and
// Dictionary. Containers own their children; an object belongs to at most
// one parent.
type Object interface {
	Type() Type
	object()
}

// CastTo returns obj as the concrete object type T.
func CastTo[T Object](obj Object) (T, bool) {
	t, ok := obj.(T)
	return t, ok
}

// Null is the plist null value.
type Null struct{}

// NewNull creates a new Null.
func NewNull() *Null { return new(Null) }

func (*Null) Type() Type { return TypeNull }
func (*Null) object()    {}

// A Boolean is a plist boolean. Its value is fixed at construction.
type Boolean struct {
	value bool
}

// NewBoolean creates a new Boolean holding value.
func NewBoolean(value bool) *Boolean {
	return &Boolean{value: value}
}

// Value returns the boolean value.
func (b *Boolean) Value() bool { return b.value }

func (*Boolean) Type() Type { return TypeBoolean }
func (*Boolean) object()    {}

// An Integer is a plist integer holding a signed 64-bit value.
type Integer struct {
	value int64
}

// NewInteger creates a new Integer with a zero value.
func NewInteger() *Integer { return new(Integer) }

// SetValue sets the integer value.
func (i *Integer) SetValue(value int64) { i.value = value }

// Value returns the integer value.
func (i *Integer) Value() int64 { return i.value }

func (*Integer) Type() Type { return TypeInteger }
func (*Integer) object()    {}

// A Real is a plist real number holding a 64-bit float.
type Real struct {
	value float64
}

// NewReal creates a new Real with a zero value.
func NewReal() *Real { return new(Real) }

// SetValue sets the real value.
func (r *Real) SetValue(value float64) { r.value = value }

// Value returns the real value.
func (r *Real) Value() float64 { return r.value }

func (*Real) Type() Type { return TypeReal }
func (*Real) object()    {}

// A String is a plist string.
type String struct {
	value string
}

// NewString creates a new empty String.
func NewString() *String { return new(String) }

// SetValue sets the string value.
func (s *String) SetValue(value string) { s.value = value }

// Value returns the string value.
func (s *String) Value() string { return s.value }

func (*String) Type() Type { return TypeString }
func (*String) object()    {}

// A Data is a plist data blob holding raw bytes.
type Data struct {
	value []byte
}

// NewData creates a new empty Data.
func NewData() *Data { return new(Data) }

// SetValue sets the raw byte value.
func (d *Data) SetValue(value []byte) { d.value = value }

// SetBase64Value decodes text as standard base64 and stores the result.
// Interior whitespace is ignored; any other character outside the base64
// alphabet is an error.
func (d *Data) SetBase64Value(text string) error {
	stripped := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
		default:
			stripped = append(stripped, text[i])
		}
	}
	value, err := base64.StdEncoding.DecodeString(string(stripped))
	if err != nil {
		return err
	}
	d.value = value
	return nil
}

// Value returns the raw bytes.
func (d *Data) Value() []byte { return d.value }

func (*Data) Type() Type { return TypeData }
func (*Data) object()    {}

// A Date is a plist date holding an instant in time.
type Date struct {
	value time.Time
}

// NewDate creates a new zero-valued Date.
func NewDate() *Date { return new(Date) }

// SetValue sets the date value.
func (d *Date) SetValue(value time.Time) { d.value = value }

// SetStringValue parses text in the plist date format
// (YYYY-MM-DDTHH:MM:SSZ, RFC 3339) and stores the result.
func (d *Date) SetStringValue(text string) error {
	value, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return err
	}
	d.value = value
	return nil
}

// Value returns the date value.
func (d *Date) Value() time.Time { return d.value }

func (*Date) Type() Type { return TypeDate }
func (*Date) object()    {}

// An Array is an ordered sequence of objects.
type Array struct {
	values []Object
}

// NewArray creates a new empty Array.
func NewArray() *Array { return new(Array) }

// Append appends child to the array, transferring ownership.
// Insertion order is preserved.
func (a *Array) Append(child Object) {
	a.values = append(a.values, child)
}

// Len returns the number of elements in the array.
func (a *Array) Len() int { return len(a.values) }

// At returns the element at index i.
func (a *Array) At(i int) Object { return a.values[i] }

func (*Array) Type() Type { return TypeArray }
func (*Array) object()    {}

// A Dictionary is an ordered mapping from string keys to objects.
// Iteration order is the insertion order of unique keys.
type Dictionary struct {
	keys   []string
	values map[string]Object
}

// NewDictionary creates a new empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: make(map[string]Object)}
}

// Set inserts or replaces the value for key, transferring ownership of
// child. When key already exists the new value replaces the previous one
// and the key keeps its original position.
func (d *Dictionary) Set(key string, child Object) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = child
}

// Get returns the value bound to key.
func (d *Dictionary) Get(key string) (Object, bool) {
	value, ok := d.values[key]
	return value, ok
}

// Remove deletes the binding for key, if any.
func (d *Dictionary) Remove(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the dictionary's keys in insertion order.
func (d *Dictionary) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of bindings in the dictionary.
func (d *Dictionary) Len() int { return len(d.keys) }

func (*Dictionary) Type() Type { return TypeDictionary }
func (*Dictionary) object()    {}
