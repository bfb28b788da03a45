package cmp

// SliceEq tests two slices for element-wise equality. Ordering matters.
func SliceEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for nth, va := range a {
		if va != b[nth] {
			return false
		}
	}
	return true
}

// SliceEqWith is SliceEq with a custom predicate.
func SliceEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// SliceContains searches haystack for needle as a contiguous
// subsequence. The empty needle is found everywhere.
func SliceContains[T comparable](haystack []T, needle []T) bool {
	if len(haystack) < len(needle) {
		return false
	}
	for from := 0; from <= len(haystack)-len(needle); from++ {
		if SliceEq(haystack[from:from+len(needle)], needle) {
			return true
		}
	}
	return false
}

// SliceContentEq tests whether two slices hold the same elements,
// ignoring ordering but respecting multiplicity.
func SliceContentEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	rest := make(map[T]int, len(a))
	for _, va := range a {
		rest[va] += 1
	}
	for _, vb := range b {
		n, ok := rest[vb]
		if !ok || n <= 0 {
			return false
		}
		rest[vb] = n - 1
	}
	return true
}

// SliceSubsetWith tests whether every element of b can be matched to a
// distinct element of a. Ordering does not matter; multiplicity does.
func SliceSubsetWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) < len(b) {
		return false
	}
	used := make([]bool, len(a))
B:
	for _, vb := range b {
		for nth, va := range a {
			if used[nth] || !pred(va, vb) {
				continue
			}
			used[nth] = true
			continue B
		}
		return false
	}
	return true
}

// SliceContentEqWith is SliceContentEq with a custom predicate.
func SliceContentEqWith[T any, U any](a []T, b []U, pred func(a T, b U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
A:
	for _, va := range a {
		for nth, vb := range b {
			if used[nth] || !pred(va, vb) {
				continue
			}
			used[nth] = true
			continue A
		}
		return false
	}
	return true
}
