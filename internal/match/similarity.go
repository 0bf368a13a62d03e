package match

// Ratio computes a symmetric sequence-similarity measure in [0,1] between two
// strings: twice the total size of the longest matching blocks divided by the
// combined length. Callers are expected to fold case and whitespace first.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	m := matchingSize(ra, rb)
	return 2 * float64(m) / float64(len(ra)+len(rb))
}

// matchingSize sums the longest matching block and recurses into the pieces
// on either side of it.
func matchingSize(a, b []rune) int {
	i, j, k := longestBlock(a, b)
	if k == 0 {
		return 0
	}
	return k + matchingSize(a[:i], b[:j]) + matchingSize(a[i+k:], b[j+k:])
}

// longestBlock finds the longest contiguous run common to a and b, preferring
// the earliest occurrence in a, then in b, so results are deterministic.
func longestBlock(a, b []rune) (bestI, bestJ, bestK int) {
	b2j := make(map[rune][]int)
	for j, c := range b {
		b2j[c] = append(b2j[c], j)
	}

	j2len := make(map[int]int)
	for i, c := range a {
		newJ2len := make(map[int]int, len(b2j[c]))
		for _, j := range b2j[c] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestK {
				bestI, bestJ, bestK = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return bestI, bestJ, bestK
}
