package dispatchers

import (
	"cmp"
	"slices"
	"strings"
)

// maxSuggestDistance bounds how far a typo may be from a real command.
const maxSuggestDistance = 3

// editDistance is the case-insensitive Levenshtein distance of a and b,
// computed over runes with a single rolling row.
func editDistance(a, b string) int {
	ra, rb := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := range ra {
		diag := row[0]
		row[0] = i + 1
		for j := range rb {
			up := row[j+1]
			sub := diag
			if ra[i] != rb[j] {
				sub++
			}
			row[j+1] = min(up+1, row[j]+1, sub)
			diag = up
		}
	}
	return row[len(rb)]
}

// FindSimilarCommands returns at most limit candidates close to input,
// nearest first and alphabetical among equals. Exact matches are skipped.
func FindSimilarCommands(input string, candidates []string, limit int) []string {
	type near struct {
		name string
		dist int
	}
	var found []near
	for _, name := range candidates {
		if d := editDistance(input, name); d > 0 && d <= maxSuggestDistance {
			found = append(found, near{name, d})
		}
	}
	slices.SortFunc(found, func(x, y near) int {
		return cmp.Or(cmp.Compare(x.dist, y.dist), strings.Compare(x.name, y.name))
	})

	out := make([]string, 0, min(limit, len(found)))
	for _, n := range found[:min(limit, len(found))] {
		out = append(out, n.name)
	}
	return out
}
