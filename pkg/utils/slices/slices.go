package slices

// Map applies f to every element of in and collects the results.
//
// Map(nil, f) returns nil.
func Map[T any, R any](in []T, f func(T) R) []R {
	if in == nil {
		return nil
	}
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

// First returns the first element satisfying pred, and whether one was found.
func First[T any](in []T, pred func(T) bool) (T, bool) {
	for _, v := range in {
		if pred(v) {
			return v, true
		}
	}
	return *new(T), false
}
