package rules

import (
	"strings"

	"github.com/lexhound/statute-analyzer/pkg/models"
)

// evidenceWindow is how many characters of surrounding context are
// harvested on each side of a keyword match.
const evidenceWindow = 100

// Match decides presence of one element in the text and collects
// evidentiary snippets. Pure function of (text, element): keyword
// elements match case-insensitively and harvest context windows,
// grounds/options elements use any-of substring containment, and
// framework elements delegate to EvaluateFramework. Malformed elements
// (nothing to match on) report absent rather than erroring.
func Match(text string, e *Element) models.MatchResult {
	switch {
	case e.framework != nil:
		return matchFramework(text, e.framework)
	case len(e.Keywords) > 0:
		return matchKeywords(text, e.Keywords)
	case len(e.GroundsList) > 0:
		return matchAnyOf(text, e.GroundsList)
	case len(e.Options) > 0:
		return matchAnyOf(text, e.Options)
	}
	return models.MatchResult{}
}

func matchKeywords(text string, keywords []Keyword) models.MatchResult {
	var result models.MatchResult
	for i := range keywords {
		kw := &keywords[i]
		if kw.re == nil {
			continue
		}
		locs := kw.re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		result.Present = true
		result.MatchedKeys = append(result.MatchedKeys, kw.Value)
		for _, loc := range locs {
			result.Evidence = append(result.Evidence, snippet(text, loc[0], loc[1]))
		}
	}
	result.Evidence = dedupe(result.Evidence)
	result.MatchedKeys = dedupe(result.MatchedKeys)
	return result
}

func matchAnyOf(text string, alternatives []string) models.MatchResult {
	lower := strings.ToLower(text)
	var result models.MatchResult
	for _, alt := range alternatives {
		if alt == "" {
			continue
		}
		if idx := strings.Index(lower, strings.ToLower(alt)); idx >= 0 {
			result.Present = true
			result.MatchedKeys = append(result.MatchedKeys, alt)
			result.Evidence = append(result.Evidence, snippet(text, idx, idx+len(alt)))
		}
	}
	result.Evidence = dedupe(result.Evidence)
	result.MatchedKeys = dedupe(result.MatchedKeys)
	return result
}

func matchFramework(text string, fw *TestFramework) models.MatchResult {
	eval := EvaluateFramework(text, fw)
	result := models.MatchResult{Present: eval.Passed}
	for _, limb := range eval.Limbs {
		if limb.Passed {
			result.MatchedKeys = append(result.MatchedKeys, limb.Name)
		}
		result.Evidence = append(result.Evidence, limb.MatchedIndicators...)
	}
	result.Evidence = dedupe(result.Evidence)
	result.MatchedKeys = dedupe(result.MatchedKeys)
	return result
}

// snippet extracts the match plus up to evidenceWindow characters of
// context on each side, collapsing internal whitespace.
func snippet(text string, start, end int) string {
	from := start - evidenceWindow
	if from < 0 {
		from = 0
	}
	to := end + evidenceWindow
	if to > len(text) {
		to = len(text)
	}
	return strings.Join(strings.Fields(text[from:to]), " ")
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
