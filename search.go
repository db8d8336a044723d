package csa

// lowerBound returns the index of the first element of items whose key
// is >= target, and true if such an element exists. items must be
// sorted ascending by key. Implemented iteratively (not recursively)
// since the connection array scanned by the engine can hold hundreds
// of thousands of entries and Go gives no tail-call guarantee.
func lowerBound[T any](items []T, target int, key func(T) int) (int, bool) {
	lo, hi := 0, len(items)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if key(items[mid]) < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == len(items) {
		return lo, false
	}
	return lo, true
}
