package resolve

// levenshtein computes the edit distance between two strings, compared
// rune-wise with the usual two-row dynamic program.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// TitleSimilarity scores two normalized titles in [0,1]: 1 minus the edit
// distance normalized by the longer length. Identical keys score 1,
// unrelated titles approach 0.
func TitleSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	sim := 1 - float64(levenshtein(a, b))/float64(longest)
	if sim < 0 {
		return 0
	}
	return sim
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
