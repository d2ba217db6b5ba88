// Package suggest finds the closest known name to a misspelled one.
package suggest

// maxDistance is the largest edit distance still offered as a suggestion.
const maxDistance = 3

// Matcher computes Levenshtein distances reusing one buffer. It is not safe
// for concurrent use.
type Matcher struct {
	column []int
}

// Distance returns the number of single-rune insertions, deletions or
// substitutions turning a into b. It uses O(min(len)) space.
func (m *Matcher) Distance(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) < len(s2) {
		s1, s2 = s2, s1
	}

	if len(s2) == 0 {
		return len(s1)
	}

	if cap(m.column) < len(s2)+1 {
		m.column = make([]int, len(s2)+1)
	}

	column := m.column[:len(s2)+1]
	for i := range column {
		column[i] = i
	}

	for _, r1 := range s1 {
		diag := column[0]
		column[0]++

		for j, r2 := range s2 {
			cost := 1
			if r1 == r2 {
				cost = 0
			}

			next := min(column[j+1]+1, column[j]+1, diag+cost)
			diag = column[j+1]
			column[j+1] = next
		}
	}

	return column[len(s2)]
}

// Closest returns the candidate nearest to name, if any lies within a small
// edit distance. Ties go to the earlier candidate.
func Closest(name string, candidates []string) (string, bool) {
	var (
		m    Matcher
		best string
	)

	bestDistance := maxDistance + 1

	for _, c := range candidates {
		d := m.Distance(name, c)
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}

	return best, bestDistance <= maxDistance
}

// Hint renders a " (did you mean x?)" suffix, or "" when nothing is close.
func Hint(name string, candidates []string) string {
	best, ok := Closest(name, candidates)
	if !ok || best == name {
		return ""
	}

	return " (did you mean " + best + "?)"
}
