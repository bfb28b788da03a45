package pointer

func Ref[T any](t T) *T {
	return &t
}

// SafeDeref dereferences val, or returns the zero value when val is nil.
func SafeDeref[T any](val *T) T {
	if val == nil {
		return *new(T)
	}
	return *val
}

// Equal compares two pointers by the value they point at.
//
// Two nils are equal; nil never equals non-nil.
func Equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
