package rules

import (
	"regexp"
	"sort"
)

// LimbResult is the outcome of evaluating one limb of a test framework.
type LimbResult struct {
	Name                string   `json:"name"`
	Required            bool     `json:"required"`
	Found               bool     `json:"found"`
	Passed              bool     `json:"passed"`
	MatchedIndicators   []string `json:"matched_indicators,omitempty"`
	InsufficientMatches []string `json:"insufficient_matches,omitempty"`
}

// FrameworkResult is the outcome of evaluating a whole test framework.
type FrameworkResult struct {
	Name      string       `json:"name"`
	Authority string       `json:"authority"`
	Passed    bool         `json:"passed"`
	Limbs     []LimbResult `json:"limbs"`
}

// EvaluateFramework applies a multi-limb test to the text. Each limb
// tentatively passes when any indicator matches (case-insensitive,
// word-bounded); any insufficient-indicator match forces the limb to
// fail regardless. The framework passes iff every required limb
// passes; non-required limbs contribute evidence only. A limb with a
// missing indicator list simply never finds anything. Deterministic:
// limbs are evaluated in sorted name order.
func EvaluateFramework(text string, fw *TestFramework) FrameworkResult {
	result := FrameworkResult{
		Name:      fw.Name,
		Authority: fw.Authority,
		Passed:    true,
	}

	names := make([]string, 0, len(fw.Limbs))
	for name := range fw.Limbs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		limb := fw.Limbs[name]
		lr := LimbResult{Name: name, Required: limb.Required}

		for _, term := range limb.Indicators {
			if termMatches(text, term) {
				lr.MatchedIndicators = append(lr.MatchedIndicators, term)
			}
		}
		lr.Found = len(lr.MatchedIndicators) > 0
		lr.Passed = lr.Found

		// Insufficient-grounds override always wins.
		for _, term := range limb.InsufficientIndicators {
			if termMatches(text, term) {
				lr.InsufficientMatches = append(lr.InsufficientMatches, term)
				lr.Passed = false
			}
		}

		if limb.Required && !lr.Passed {
			result.Passed = false
		}
		result.Limbs = append(result.Limbs, lr)
	}

	return result
}

// termMatches reports a case-insensitive, word-bounded occurrence of
// the term in the text.
func termMatches(text, term string) bool {
	if term == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
