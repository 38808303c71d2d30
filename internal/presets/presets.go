// Package presets implements the eight fixed-rule text scanners:
// procedural, contextual, jurisprudential, textual, intent, purposive,
// comparative, and evidentiary. Each scanner is stateless and pure.
package presets

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lexhound/statute-analyzer/pkg/models"
)

// contextWindow is how many characters of context are attached to a
// finding on each side of the match.
const contextWindow = 50

// rule is one fixed scanning rule. Severity is a static property of
// the rule, not computed from corpus statistics.
type rule struct {
	findingType string
	pattern     *regexp.Regexp
	severity    models.Severity
	description string
}

// preset bundles a rule list with the key terms it tracks.
type preset struct {
	rules    []rule
	keyTerms []string
}

// Names lists the available presets in canonical order.
func Names() []string {
	return []string{
		"procedural", "contextual", "jurisprudential", "textual",
		"intent", "purposive", "comparative", "evidentiary",
	}
}

// Analyze runs one preset over the text. otherDocs carries the raw
// text of every other document in the set; only the comparative preset
// reads it. An unknown preset name is an error; everything else
// returns a normal result.
func Analyze(name, text string, otherDocs []string) (models.PresetResult, error) {
	result := models.PresetResult{
		Preset:    name,
		WordCount: len(strings.Fields(text)),
		LineCount: strings.Count(text, "\n") + 1,
	}

	if name == "comparative" {
		return analyzeComparative(result, text, otherDocs), nil
	}

	p, ok := catalogue[name]
	if !ok {
		return result, fmt.Errorf("unknown preset %q", name)
	}

	result.KeyTerms = presentTerms(text, p.keyTerms)
	for _, r := range p.rules {
		result.Findings = append(result.Findings, applyRule(name, text, r)...)
	}

	if name == "intent" {
		if f, ok := subjectiveBalanceFinding(text); ok {
			result.Findings = append(result.Findings, f)
		}
	}

	return result, nil
}

// applyRule emits one finding per match, locating it by counting
// newlines up to the match offset.
func applyRule(presetName, text string, r rule) []models.Finding {
	var findings []models.Finding
	for _, loc := range r.pattern.FindAllStringIndex(text, -1) {
		findings = append(findings, models.Finding{
			Type:        r.findingType,
			Severity:    r.severity,
			Description: r.description,
			Location:    fmt.Sprintf("line %d", strings.Count(text[:loc[0]], "\n")+1),
			Context:     contextAround(text, loc[0], loc[1]),
			Preset:      presetName,
		})
	}
	return findings
}

func contextAround(text string, start, end int) string {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(text) {
		to = len(text)
	}
	return strings.Join(strings.Fields(text[from:to]), " ")
}

func presentTerms(text string, terms []string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var out []string
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		if strings.Contains(lower, term) {
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	sort.Strings(out)
	return out
}

var (
	subjectiveRe = regexp.MustCompile(`(?i)\b(believed|believes|suspected|felt|assumed|appeared|seemed|impression)\b`)
	objectiveRe  = regexp.MustCompile(`(?i)\b(observed|measured|recorded|tested|detected|photographed|weighed|timed)\b`)
)

// subjectiveBalanceFinding is the one derived rule: when subjective
// statements outnumber objective facts by more than two to one, a
// single HIGH finding summarises the imbalance.
func subjectiveBalanceFinding(text string) (models.Finding, bool) {
	subjective := len(subjectiveRe.FindAllString(text, -1))
	objective := len(objectiveRe.FindAllString(text, -1))
	if subjective <= 2*objective {
		return models.Finding{}, false
	}
	return models.Finding{
		Type:     "subjective_objective_imbalance",
		Severity: models.SeverityHigh,
		Description: fmt.Sprintf(
			"subjective statements (%d) outnumber objective facts (%d) by more than 2:1",
			subjective, objective),
		Preset: "intent",
	}, true
}

// analyzeComparative is the only preset needing at least two
// documents. With fewer it reports a single informational LOW finding
// and attempts no comparison.
func analyzeComparative(result models.PresetResult, text string, otherDocs []string) models.PresetResult {
	if len(otherDocs) == 0 {
		result.Findings = append(result.Findings, models.Finding{
			Type:        "insufficient_documents",
			Severity:    models.SeverityLow,
			Description: "comparative analysis requires at least 2 documents; no comparison attempted",
			Preset:      "comparative",
		})
		return result
	}

	baseTerms := termSet(text)
	result.KeyTerms = sortedSet(baseTerms)

	for i, other := range otherDocs {
		shared, total := overlap(baseTerms, termSet(other))
		ratio := 0.0
		if total > 0 {
			ratio = float64(shared) / float64(total)
		}
		if ratio < 0.2 {
			result.Findings = append(result.Findings, models.Finding{
				Type:     "low_terminological_overlap",
				Severity: models.SeverityMedium,
				Description: fmt.Sprintf(
					"document shares only %.0f%% of significant terms with document %d",
					ratio*100, i+2),
				Preset: "comparative",
			})
		}

		lenA, lenB := len(strings.Fields(text)), len(strings.Fields(other))
		if lenB > 0 && (lenA > 3*lenB || lenB > 3*lenA) {
			result.Findings = append(result.Findings, models.Finding{
				Type:     "length_divergence",
				Severity: models.SeverityLow,
				Description: fmt.Sprintf(
					"document length (%d words) diverges sharply from document %d (%d words)",
					lenA, i+2, lenB),
				Preset: "comparative",
			})
		}
	}

	return result
}

var wordRe = regexp.MustCompile(`[a-z]{5,}`)

func termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		set[w] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) (shared, total int) {
	for w := range a {
		if _, ok := b[w]; ok {
			shared++
		}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for w := range a {
		union[w] = struct{}{}
	}
	for w := range b {
		union[w] = struct{}{}
	}
	return shared, len(union)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
