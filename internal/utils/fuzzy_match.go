package utils

import (
	"sort"
	"strings"
)

// labelAliases maps shorthand users commonly type to a fragment of the
// trained label it refers to.
var labelAliases = map[string][]string{
	"auto":      {"automatic"},
	"at":        {"automatic"},
	"mt":        {"manual"},
	"1st":       {"first owner"},
	"first":     {"first owner"},
	"2nd":       {"second owner"},
	"second":    {"second owner"},
	"3rd":       {"third owner"},
	"third":     {"third owner"},
	"4th":       {"fourth & above owner"},
	"fourth":    {"fourth & above owner"},
	"test":      {"test drive car"},
	"new":       {"test drive car"},
	"gas":       {"petrol", "lpg", "cng"},
	"gasoline":  {"petrol"},
	"private":   {"individual"},
	"owner":     {"individual"},
	"showroom":  {"dealer"},
	"certified": {"trustmark dealer"},
}

// FuzzyMatchLabel performs fuzzy matching between what a user typed and a
// trained label. Returns true if the search term fuzzy matches the label.
func FuzzyMatchLabel(searchTerm, label string) bool {
	searchLower := strings.ToLower(strings.TrimSpace(searchTerm))
	labelLower := strings.ToLower(strings.TrimSpace(label))

	if searchLower == "" || labelLower == "" {
		return false
	}

	// Exact match
	if searchLower == labelLower {
		return true
	}

	// Contains match
	if strings.Contains(labelLower, searchLower) {
		return true
	}

	// Check aliases
	if targets, ok := labelAliases[searchLower]; ok {
		for _, target := range targets {
			if strings.Contains(labelLower, target) {
				return true
			}
		}
	}

	return false
}

// SuggestLabel returns the vocabulary entry a user most likely meant by
// input. Case-insensitive equality wins, then the shortest fuzzy match,
// ties broken alphabetically. It never picks a label on the caller's behalf:
// the result is only meant for "did you mean" messages.
func SuggestLabel(input string, vocabulary []string) (string, bool) {
	inputLower := strings.ToLower(strings.TrimSpace(input))
	if inputLower == "" {
		return "", false
	}

	for _, label := range vocabulary {
		if strings.ToLower(strings.TrimSpace(label)) == inputLower {
			return label, true
		}
	}

	var matches []string
	for _, label := range vocabulary {
		if FuzzyMatchLabel(input, label) {
			matches = append(matches, label)
		}
	}
	if len(matches) == 0 {
		return "", false
	}

	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})
	return matches[0], true
}
