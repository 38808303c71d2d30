package rules

import (
	"fmt"
	"sort"

	"github.com/lexhound/statute-analyzer/pkg/models"
)

// MissingElement is a required element absent from the text. The
// consequence text is authored in the rule database and propagates
// upward verbatim.
type MissingElement struct {
	Reference   string `json:"reference"`
	Element     string `json:"element"`
	Consequence string `json:"consequence,omitempty"`
}

// ElementResult is one element's match outcome within a subsection.
type ElementResult struct {
	Name     string             `json:"name"`
	Type     string             `json:"type"`
	Required bool               `json:"required"`
	Match    models.MatchResult `json:"match"`
}

// SubsectionResult is the compliance verdict for one subsection.
// Compliant iff every required element is present.
type SubsectionResult struct {
	Reference string          `json:"reference"`
	Compliant bool            `json:"compliant"`
	Elements  []ElementResult `json:"elements"`
}

// ParagraphResult records how one alternative ground scored.
type ParagraphResult struct {
	Letter      string   `json:"letter"`
	Description string   `json:"description"`
	Matches     int      `json:"matches"`
	Applicable  bool     `json:"applicable"`
	Evidence    []string `json:"evidence,omitempty"`
}

// SectionResult is the section-level compliance verdict. When the Act
// or section is unknown, Found is false, Problem describes the miss,
// and AvailableKeys lists what the database does hold; this is a
// reportable condition, not an error.
type SectionResult struct {
	ActKey        string             `json:"act_key"`
	SectionID     string             `json:"section_id"`
	Title         string             `json:"title,omitempty"`
	Found         bool               `json:"found"`
	Problem       string             `json:"problem,omitempty"`
	AvailableKeys []string           `json:"available_keys,omitempty"`
	Compliant     bool               `json:"compliant"`
	Subsections   []SubsectionResult `json:"subsections,omitempty"`
	Paragraphs    []ParagraphResult  `json:"paragraphs,omitempty"`
	Missing       []MissingElement   `json:"missing,omitempty"`
}

// CheckCompliance evaluates one section of one Act against the text.
// A subsection is compliant iff all its required elements are present;
// the section is compliant iff all subsections are compliant.
// Paragraph-style sections are scored independently: every paragraph
// with at least one keyword match is applicable, and multiple
// simultaneously applicable paragraphs are all reported.
func (db *Database) CheckCompliance(text, actKey, sectionID string) SectionResult {
	result := SectionResult{ActKey: actKey, SectionID: sectionID}

	act, ok := db.Acts[actKey]
	if !ok {
		result.Problem = fmt.Sprintf("unknown act %q", actKey)
		result.AvailableKeys = db.ActKeys()
		return result
	}

	section, ok := act.Sections[sectionID]
	if !ok {
		result.Problem = fmt.Sprintf("act %q has no section %q", actKey, sectionID)
		result.AvailableKeys = db.SectionIDs(actKey)
		return result
	}

	result.Found = true
	result.Title = section.Title
	result.Compliant = true

	for _, subID := range sortedKeys(section.Subsections) {
		sub := section.Subsections[subID]
		sr := SubsectionResult{Reference: sub.Reference, Compliant: true}

		for i := range sub.Elements {
			e := &sub.Elements[i]
			match := Match(text, e)
			sr.Elements = append(sr.Elements, ElementResult{
				Name:     e.Name,
				Type:     e.Type,
				Required: e.Required,
				Match:    match,
			})
			if e.Required && !match.Present {
				sr.Compliant = false
				result.Missing = append(result.Missing, MissingElement{
					Reference:   sub.Reference,
					Element:     e.Name,
					Consequence: e.AbsenceConsequence,
				})
			}
		}

		if !sr.Compliant {
			result.Compliant = false
		}
		result.Subsections = append(result.Subsections, sr)
	}

	for _, letter := range sortedKeys(section.Paragraphs) {
		para := section.Paragraphs[letter]
		pr := ParagraphResult{Letter: letter, Description: para.Description}

		for i := range para.Keywords {
			kw := &para.Keywords[i]
			if kw.re == nil {
				continue
			}
			locs := kw.re.FindAllStringIndex(text, -1)
			pr.Matches += len(locs)
			for _, loc := range locs {
				pr.Evidence = append(pr.Evidence, snippet(text, loc[0], loc[1]))
			}
		}
		pr.Applicable = pr.Matches > 0
		pr.Evidence = dedupe(pr.Evidence)
		result.Paragraphs = append(result.Paragraphs, pr)
	}

	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
