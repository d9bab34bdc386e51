// Package collection holds generic slice helpers used across services,
// mostly for shaping order lines and catalog results.
//
//	names := collection.Map(items, func(i models.OrderItem) string { return i.Name })
//	total := collection.Sum(items, func(i models.OrderItem) float64 { return i.Price * float64(i.Quantity) })
package collection

// Map transforms each element of s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element matching fn, or (zero, false).
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether any element of s satisfies fn.
func Contains[T any](s []T, fn func(T) bool) bool {
	_, ok := First(s, fn)
	return ok
}

// GroupBy partitions s into a map keyed by the string returned by fn.
func GroupBy[T any](s []T, fn func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, v := range s {
		k := fn(v)
		out[k] = append(out[k], v)
	}
	return out
}

// KeyBy turns s into a map using the key produced by fn. Last key wins.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}

// Unique returns s with duplicate elements removed, order preserved.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	var out []T
	for _, v := range s {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Reduce folds s into a single value using fn, starting with initial.
func Reduce[T, R any](s []T, initial R, fn func(carry R, item T) R) R {
	carry := initial
	for _, v := range s {
		carry = fn(carry, v)
	}
	return carry
}

// Sum sums numeric values extracted by fn.
func Sum[T any](s []T, fn func(T) float64) float64 {
	return Reduce(s, 0.0, func(acc float64, v T) float64 { return acc + fn(v) })
}
