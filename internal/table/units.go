package table

// splitUnits partitions items into at most n contiguous slices of near-equal
// size, one per execution unit. Units operate on disjoint slices with no
// shared mutable state and no coordination between them.
func splitUnits[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	if len(items) == 0 {
		return nil
	}
	if n > len(items) {
		n = len(items)
	}
	units := make([][]T, 0, n)
	size := (len(items) + n - 1) / n
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		units = append(units, items[start:end])
	}
	return units
}
