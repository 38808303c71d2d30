// Package crossref implements the cross-document consistency checker:
// an append-only arena of documents with eagerly extracted facts, a
// divergence analysis over those facts, and a timeline builder.
package crossref

import (
	"regexp"
	"strings"
)

// Facts are the structured facts snapshotted onto a document when it
// is added. Never mutated afterwards.
type Facts struct {
	Dates     []string `json:"dates,omitempty"`
	Times     []string `json:"times,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Persons   []string `json:"persons,omitempty"`
	Events    []string `json:"events,omitempty"`
}

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

// Three literal date formats: numeric d/m/y, "12 March 2024", and
// "March 12, 2024".
var dateRes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`\b\d{1,2}\s+(?:` + monthNames + `)\s+\d{4}\b`),
	regexp.MustCompile(`\b(?:` + monthNames + `)\s+\d{1,2},?\s+\d{4}\b`),
}

var timeRe = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?(?:\s*(?:am|pm))?\b`)

var locationRes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\s+(?:Street|Road|Avenue|Highway|Lane|Drive|Court|Place|Parade)\b`),
	regexp.MustCompile(`\b(?:corner of|intersection of)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\s+and\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`),
}

var personRes = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Constable|Sergeant|Inspector|Officer)\.?\s+[A-Z][a-z]+\b`),
	regexp.MustCompile(`(?i)\bthe\s+(?:driver|defendant|accused|informant|witness|operator|passenger)\b`),
}

// eventVerbs is the fixed verb list that marks a sentence as an event.
var eventVerbs = []string{
	"intercepted", "stopped", "arrested", "tested", "observed",
	"requested", "required", "refused", "conveyed", "charged",
	"administered", "cautioned",
}

var eventVerbRe = regexp.MustCompile(`(?i)\b(` + strings.Join(eventVerbs, "|") + `)\b`)

var sentenceSplitRe = regexp.MustCompile(`[.!?]\s+|\n`)

// extractFacts computes the fact snapshot for one document's text.
func extractFacts(text string) Facts {
	var f Facts

	for _, re := range dateRes {
		f.Dates = append(f.Dates, re.FindAllString(text, -1)...)
	}
	f.Times = timeRe.FindAllString(text, -1)
	for _, re := range locationRes {
		f.Locations = append(f.Locations, re.FindAllString(text, -1)...)
	}
	for _, re := range personRes {
		f.Persons = append(f.Persons, re.FindAllString(text, -1)...)
	}

	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if eventVerbRe.MatchString(sentence) {
			f.Events = append(f.Events, sentence)
		}
	}

	return f
}

// normalizeKey lower-cases and collapses whitespace so that trivially
// different spellings group together.
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
