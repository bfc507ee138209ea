package connecttools

// Filter returns the elements of input for which keep is true, in order.
func Filter[T any](input []T, keep func(T) bool) []T {
	result := []T{}
	for _, i := range input {
		if keep(i) {
			result = append(result, i)
		}
	}

	return result
}
