package plist

import "bytes"

// Equal reports whether a and b are structurally equal. Dictionaries are
// compared as mappings (equal key sets, equal values per key), arrays as
// ordered sequences, and leaves by typed value.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a := a.(type) {
	case *Null:
		return true
	case *Boolean:
		return a.Value() == b.(*Boolean).Value()
	case *Integer:
		return a.Value() == b.(*Integer).Value()
	case *Real:
		return a.Value() == b.(*Real).Value()
	case *String:
		return a.Value() == b.(*String).Value()
	case *Data:
		return bytes.Equal(a.Value(), b.(*Data).Value())
	case *Date:
		return a.Value().Equal(b.(*Date).Value())
	case *Array:
		other := b.(*Array)
		if a.Len() != other.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !Equal(a.At(i), other.At(i)) {
				return false
			}
		}
		return true
	case *Dictionary:
		other := b.(*Dictionary)
		if a.Len() != other.Len() {
			return false
		}
		for _, key := range a.Keys() {
			av, _ := a.Get(key)
			bv, ok := other.Get(key)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
