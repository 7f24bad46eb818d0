package physics

// Pairs calls fn(i, j) for every unordered pair of indices in [0, n) with
// i < j, in row order. Each pair is visited exactly once.
func Pairs(n int, fn func(i, j int)) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			fn(i, j)
		}
	}
}
