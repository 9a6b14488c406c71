package normalize

import "strings"

// corporateSuffixes are stripped from the end of a company name, with or
// without a trailing period.
var corporateSuffixes = []string{
	"inc", "llc", "corp", "corporation", "ltd", "limited", "co",
}

// CompanyName lowercases, trims, collapses internal whitespace and strips one
// trailing corporate suffix token. Idempotent.
func CompanyName(name string) string {
	s := collapse(strings.ToLower(name))
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	if len(words) > 1 {
		last := strings.TrimSuffix(words[len(words)-1], ".")
		for _, suffix := range corporateSuffixes {
			if last == suffix {
				words = words[:len(words)-1]
				break
			}
		}
	}
	return strings.Join(words, " ")
}

// JobTitle lowercases, trims and collapses whitespace. No suffix stripping.
func JobTitle(title string) string {
	return collapse(strings.ToLower(title))
}

// FuzzyMatchCompany reports whether two company names refer to the same
// company: equal after normalization, one contains the other, or they share
// enough significant words (longer than 3 chars, at least half of the smaller
// word set).
func FuzzyMatchCompany(a, b string) bool {
	na := CompanyName(a)
	nb := CompanyName(b)

	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	setA := significantWords(na)
	setB := significantWords(nb)

	common := 0
	for w := range setA {
		if setB[w] {
			common++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}

	return common > 0 && float64(common) >= float64(smaller)/2
}

func significantWords(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Split(s, " ") {
		if len(w) > 3 {
			set[w] = true
		}
	}
	return set
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
