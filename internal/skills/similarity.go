package skills

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0,1]:
// twice the number of matching characters divided by the total length.
// The result is symmetric.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	m := matchingChars(ra, rb)
	if n := matchingChars(rb, ra); n > m {
		m = n
	}
	return 2.0 * float64(m) / float64(total)
}

// matchingChars counts characters in the recursively found longest common
// substrings of a and b.
func matchingChars(a, b []rune) int {
	i, j, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:i], b[:j]) +
		matchingChars(a[i+size:], b[j+size:])
}

// longestMatch finds the longest common substring, preferring the earliest
// start in a and then in b.
func longestMatch(a, b []rune) (int, int, int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	bestI, bestJ, bestSize := 0, 0, 0
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > bestSize {
					bestSize = curr[j]
					bestI, bestJ = i-curr[j], j-curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return bestI, bestJ, bestSize
}
