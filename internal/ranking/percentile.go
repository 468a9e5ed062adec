package ranking

// Percentiles returns the percentile rank of each score within scores: the
// share of the other scores that are strictly lower, times 100, rounded to
// two decimals. Ties share a rank. A pool of one ranks 100.
func Percentiles(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 1 {
		out[0] = 100
		return out
	}
	others := float64(len(scores) - 1)
	for i, x := range scores {
		below := 0
		for _, y := range scores {
			if y < x {
				below++
			}
		}
		out[i] = round2(float64(below) / others * 100)
	}
	return out
}
