package dedup

import "strings"

// TitleSimilarity computes the Jaccard index over the lowercased whitespace
// token sets of two titles. Result is in [0.0, 1.0]; either title tokenizing
// to the empty set yields 0.0. Deliberately crude: no stemming, no stopword
// removal, duplicate tokens within a title collapse.
func TitleSimilarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}
	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
