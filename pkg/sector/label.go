package sector

// Label assigns each distance its sector: 1 for [0,D12), 2 for [D12,D23),
// 3 for [D23,...).
func Label(distances []float64, b Boundaries) []int {
	ret := make([]int, len(distances))
	for i, d := range distances {
		switch {
		case d < b.D12:
			ret[i] = 1
		case d < b.D23:
			ret[i] = 2
		default:
			ret[i] = 3
		}
	}
	return ret
}
