package service

import "strings"

// trigramSimilarity scores how alike two strings are as the Sørensen–Dice
// coefficient over their letter trigrams, normalized to [0,1]. Symmetric;
// 1.0 for equal strings (case-folded), 0.0 for nothing in common. Strings
// shorter than a trigram are compared for equality only.
func trigramSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for g, n := range ta {
		if m, ok := tb[g]; ok {
			if m < n {
				shared += m
			} else {
				shared += n
			}
		}
	}

	sizeA, sizeB := 0, 0
	for _, n := range ta {
		sizeA += n
	}
	for _, n := range tb {
		sizeB += n
	}
	return 2 * float64(shared) / float64(sizeA+sizeB)
}

// trigrams pads the string with leading/trailing sentinels so short terms and
// word boundaries still produce distinctive grams.
func trigrams(s string) map[string]int {
	padded := "  " + s + " "
	grams := make(map[string]int)
	runes := []rune(padded)
	for i := 0; i+3 <= len(runes); i++ {
		grams[string(runes[i:i+3])]++
	}
	return grams
}
