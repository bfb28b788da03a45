package cmp

// MapEq tests two maps for key-wise equality.
func MapEq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	return MapEqWith(a, b, func(va V, vb V) bool { return va == vb })
}

// MapEqWith is MapEq with a custom predicate.
func MapEqWith[K comparable, V any, U any](a map[K]V, b map[K]U, pred func(a V, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !pred(va, vb) {
			return false
		}
	}
	return true
}

// MapGeq tests whether a is a superset of b: every entry of b is found
// in a, unchanged.
func MapGeq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	return MapGeqWith(a, b, func(va V, vb V) bool { return va == vb })
}

// MapGeqWith is MapGeq with a custom predicate.
func MapGeqWith[K comparable, V any, U any](a map[K]V, b map[K]U, pred func(a V, b U) bool) bool {
	if len(a) < len(b) {
		return false
	}
	for k, vb := range b {
		va, ok := a[k]
		if !ok || !pred(va, vb) {
			return false
		}
	}
	return true
}

// MapLeq tests whether a is a subset of b.
func MapLeq[K comparable, V comparable](a map[K]V, b map[K]V) bool {
	return MapGeq(b, a)
}

// MapLeqWith is MapLeq with a custom predicate.
func MapLeqWith[K comparable, V any, U any](a map[K]V, b map[K]U, pred func(a V, b U) bool) bool {
	return MapGeqWith(b, a, func(vb U, va V) bool { return pred(va, vb) })
}

// MapMatch tests a map against a map of predicates, entry by entry.
// Both must share exactly the same key set.
func MapMatch[K comparable, V any](m map[K]V, pred map[K]func(V) bool) bool {
	return MapEqWith(m, pred, func(v V, p func(V) bool) bool { return p(v) })
}
