// Package classify taxonomizes raw findings into defect categories,
// assigns recommended severities, and derives the overall document
// status.
package classify

import (
	"strings"

	"github.com/lexhound/statute-analyzer/pkg/models"
)

// Category is a defect category.
type Category string

const (
	CategoryJurisdictional Category = "JURISDICTIONAL"
	CategoryStatutory      Category = "STATUTORY"
	CategoryEvidentiary    Category = "EVIDENTIARY"
	CategoryDisclosure     Category = "DISCLOSURE"
	CategoryProcedural     Category = "PROCEDURAL"
	CategoryTemporal       Category = "TEMPORAL"
	CategoryLinguistic     Category = "LINGUISTIC"
)

// categoryOrder is the fixed classification precedence. The first
// matching category wins; there is no multi-label output.
var categoryOrder = []Category{
	CategoryJurisdictional,
	CategoryStatutory,
	CategoryEvidentiary,
	CategoryDisclosure,
	CategoryProcedural,
	CategoryTemporal,
	CategoryLinguistic,
}

// categoryKeywords drive classification over the combined
// type+description text of a finding.
var categoryKeywords = map[Category][]string{
	CategoryJurisdictional: {"jurisdiction", "governing act", "wrong court", "no power"},
	CategoryStatutory:      {"statut", "section", "subsection", "element", "prescribed", "compliance"},
	CategoryEvidentiary:    {"evidence", "certificate", "continuity", "calibrat", "exhibit", "sample", "hearsay", "instrument"},
	CategoryDisclosure:     {"disclosure", "not disclosed", "withheld", "brief of evidence", "annexure", "not attached"},
	CategoryProcedural:     {"procedur", "service", "caution", "notice", "requirement", "summons"},
	CategoryTemporal:       {"time", "date", "hour", "limitation", "out of time", "chronolog"},
	CategoryLinguistic:     {"language", "ambigu", "placeholder", "terminolog", "wording", "imbalance"},
}

// categoryProfile is the fixed severity and consequence lookup per
// category; nothing here is computed.
type categoryProfile struct {
	RecommendedSeverity models.Severity
	Consequences        []string
}

var categoryProfiles = map[Category]categoryProfile{
	CategoryJurisdictional: {
		RecommendedSeverity: models.SeverityCritical,
		Consequences: []string{
			"proceeding may be a nullity",
			"orders made may be set aside",
		},
	},
	CategoryStatutory: {
		RecommendedSeverity: models.SeverityHigh,
		Consequences: []string{
			"charge may fail for an unproved element",
			"statutory precondition may be unmet",
		},
	},
	CategoryEvidentiary: {
		RecommendedSeverity: models.SeverityHigh,
		Consequences: []string{
			"evidence may be ruled inadmissible",
			"prosecution case may be materially weakened",
		},
	},
	CategoryDisclosure: {
		RecommendedSeverity: models.SeverityHigh,
		Consequences: []string{
			"adjournment or stay for late disclosure",
			"costs consequences",
		},
	},
	CategoryProcedural: {
		RecommendedSeverity: models.SeverityMedium,
		Consequences: []string{
			"step may need to be regularised or repeated",
			"procedural objection available to the defence",
		},
	},
	CategoryTemporal: {
		RecommendedSeverity: models.SeverityMedium,
		Consequences: []string{
			"act done outside a statutory window may be invalid",
			"chronology open to challenge in cross-examination",
		},
	},
	CategoryLinguistic: {
		RecommendedSeverity: models.SeverityLow,
		Consequences: []string{
			"ambiguity may be construed against the drafter",
			"document may require amendment before filing",
		},
	},
}

// Classified is one finding with its assigned category and the fixed
// category lookups attached.
type Classified struct {
	models.Finding
	Category              Category        `json:"category"`
	RecommendedSeverity   models.Severity `json:"recommended_severity"`
	PotentialConsequences []string        `json:"potential_consequences"`
}

// Summary aggregates one classification run.
type Summary struct {
	Total         int                     `json:"total"`
	ByCategory    map[Category]int        `json:"by_category"`
	BySeverity    map[models.Severity]int `json:"by_severity"`
	OverallStatus string                  `json:"overall_status"`
}

// Result is the full output of ClassifyAll.
type Result struct {
	Classified []Classified              `json:"classified"`
	ByType     map[Category][]Classified `json:"by_type"`
	BySeverity map[models.Severity][]Classified `json:"by_severity"`
	Summary    Summary                   `json:"summary"`
}

// Classify assigns the first matching category in precedence order,
// defaulting to PROCEDURAL.
func Classify(f models.Finding) Classified {
	text := strings.ToLower(f.Type + " " + f.Description)

	category := CategoryProcedural
	for _, c := range categoryOrder {
		if anyKeyword(text, categoryKeywords[c]) {
			category = c
			break
		}
	}

	profile := categoryProfiles[category]
	return Classified{
		Finding:               f,
		Category:              category,
		RecommendedSeverity:   profile.RecommendedSeverity,
		PotentialConsequences: profile.Consequences,
	}
}

func anyKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// ClassifyAll classifies every finding and derives the overall
// document status from the severity counts alone.
func ClassifyAll(findings []models.Finding) Result {
	result := Result{
		ByType:     make(map[Category][]Classified),
		BySeverity: make(map[models.Severity][]Classified),
	}
	result.Summary.ByCategory = make(map[Category]int)
	result.Summary.BySeverity = make(map[models.Severity]int)

	for _, f := range findings {
		c := Classify(f)
		result.Classified = append(result.Classified, c)
		result.ByType[c.Category] = append(result.ByType[c.Category], c)
		result.BySeverity[c.Severity] = append(result.BySeverity[c.Severity], c)
		result.Summary.ByCategory[c.Category]++
		result.Summary.BySeverity[c.Severity]++
	}

	result.Summary.Total = len(findings)
	result.Summary.OverallStatus = overallStatus(result.Summary.BySeverity)
	return result
}

// overallStatus applies the fixed severity bands. The thresholds are
// load-bearing for downstream consumers; do not adjust them.
func overallStatus(bySeverity map[models.Severity]int) string {
	switch {
	case bySeverity[models.SeverityCritical] > 0:
		return "CRITICAL NON-COMPLIANCE"
	case bySeverity[models.SeverityHigh] > 5:
		return "HIGH RISK"
	case bySeverity[models.SeverityHigh] > 0:
		return "MODERATE RISK"
	case bySeverity[models.SeverityMedium] > 0:
		return "LOW RISK"
	default:
		return "COMPLIANT"
	}
}
