package rules

import (
	"regexp"
	"sort"
)

// The four recognised citation styles: "section N", "s. N", "s N",
// "sec. N", each optionally carrying subsection/paragraph designators.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsection\s+\d+[A-Z]?(?:\([0-9A-Za-z]+\))*`),
	regexp.MustCompile(`(?i)\bsec\.\s*\d+[A-Z]?(?:\([0-9A-Za-z]+\))*`),
	regexp.MustCompile(`(?i)\bs\.\s*\d+[A-Z]?(?:\([0-9A-Za-z]+\))*`),
	regexp.MustCompile(`(?i)\bs\s+\d+[A-Z]?(?:\([0-9A-Za-z]+\))*`),
}

// sectionToken pulls the leading section number out of a citation:
// the first contiguous digit run plus an optional trailing letter.
var sectionToken = regexp.MustCompile(`\d+[A-Za-z]?`)

// ExtractReferences scans free text for statutory citations and
// returns the verbatim matched substrings, deduplicated and sorted
// lexicographically. No normalization is applied.
func ExtractReferences(text string) []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, re := range citationPatterns {
		for _, m := range re.FindAllString(text, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			refs = append(refs, m)
		}
	}
	sort.Strings(refs)
	return refs
}

// ActSummary names one Act identified as governing a document, with
// every cited section number that matched it.
type ActSummary struct {
	Key              string   `json:"key"`
	FullName         string   `json:"full_name"`
	ShortName        string   `json:"short_name"`
	Category         string   `json:"category"`
	MatchingSections []string `json:"matching_sections"`
}

// IdentifyGoverningActs maps extracted references onto Acts in the
// database. For each reference the leading section-number token is
// extracted; every Act whose section map contains that number becomes
// a governing candidate. An Act appears at most once, with all
// matching section numbers collected in citation order.
func (db *Database) IdentifyGoverningActs(references []string) []ActSummary {
	matched := make(map[string]*ActSummary)

	for _, ref := range references {
		num := sectionToken.FindString(ref)
		if num == "" {
			continue
		}
		for _, key := range db.ActKeys() {
			act := db.Acts[key]
			if _, ok := act.Sections[num]; !ok {
				continue
			}
			summary, ok := matched[key]
			if !ok {
				summary = &ActSummary{
					Key:       act.Key,
					FullName:  act.FullName,
					ShortName: act.ShortName,
					Category:  act.Category,
				}
				matched[key] = summary
			}
			if !contains(summary.MatchingSections, num) {
				summary.MatchingSections = append(summary.MatchingSections, num)
			}
		}
	}

	keys := make([]string, 0, len(matched))
	for k := range matched {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	summaries := make([]ActSummary, 0, len(matched))
	for _, k := range keys {
		summaries = append(summaries, *matched[k])
	}
	return summaries
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
