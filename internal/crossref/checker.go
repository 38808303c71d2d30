package crossref

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Consistency statuses and bands.
const (
	StatusOK                    = "ok"
	StatusInsufficientDocuments = "insufficient_documents"

	ConsistencyConsistent = "consistent"
	ConsistencyMinor      = "minor"
	ConsistencyModerate   = "moderate"
	ConsistencyMajor      = "major"
)

// timeToleranceMinutes is the largest pairwise gap between reported
// times that is not treated as a discrepancy.
const timeToleranceMinutes = 5

// Document is one immutable record in the arena. IDs are strictly
// increasing in insertion order; cross-reference operations index
// documents by position, not identity.
type Document struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Text  string `json:"-"`
	Facts Facts  `json:"facts"`
}

// Checker owns the append-only document arena. A single mutex
// serializes access so multiple analysis requests can be in flight.
type Checker struct {
	mu     sync.Mutex
	docs   []Document
	nextID int
}

// NewChecker creates an empty checker.
func NewChecker() *Checker {
	return &Checker{nextID: 1}
}

// AddDocument appends a document, eagerly extracting its facts.
func (c *Checker) AddDocument(name, text string) Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := Document{
		ID:    c.nextID,
		Name:  name,
		Text:  text,
		Facts: extractFacts(text),
	}
	c.nextID++
	c.docs = append(c.docs, doc)
	return doc
}

// Documents returns a snapshot of the arena in insertion order.
func (c *Checker) Documents() []Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Reset empties the arena. Used only on an explicit data wipe.
func (c *Checker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = nil
	c.nextID = 1
}

// Occurrence is one raw fact value in one document.
type Occurrence struct {
	DocumentIndex int    `json:"document_index"`
	Value         string `json:"value"`
}

// OccurrenceGroup collects the occurrences sharing one normalized key.
type OccurrenceGroup struct {
	Normalized  string       `json:"normalized"`
	Occurrences []Occurrence `json:"occurrences"`
}

// GroupedDiscrepancy reports a fact that diverges across documents:
// more than one distinct normalized group exists. Every group is
// reported; there is no majority-wins logic.
type GroupedDiscrepancy struct {
	Kind   string            `json:"kind"`
	Groups []OccurrenceGroup `json:"groups"`
}

// TimeDiscrepancy is a pair of reported times more than five minutes
// apart.
type TimeDiscrepancy struct {
	Time1       string `json:"time1"`
	Time2       string `json:"time2"`
	DiffMinutes int    `json:"diff_minutes"`
}

// EventDiscrepancy is an event present in the first document but
// absent from the second.
type EventDiscrepancy struct {
	Event       string `json:"event"`
	PresentIn   int    `json:"present_in"`
	MissingFrom int    `json:"missing_from"`
}

// Report is the outcome of a cross-document analysis.
type Report struct {
	Status                string               `json:"status"`
	DocumentCount         int                  `json:"document_count"`
	DateDiscrepancies     []GroupedDiscrepancy `json:"date_discrepancies,omitempty"`
	LocationDiscrepancies []GroupedDiscrepancy `json:"location_discrepancies,omitempty"`
	TimeDiscrepancies     []TimeDiscrepancy    `json:"time_discrepancies,omitempty"`
	EventDiscrepancies    []EventDiscrepancy   `json:"event_discrepancies,omitempty"`
	TotalDiscrepancies    int                  `json:"total_discrepancies"`
	Consistency           string               `json:"consistency,omitempty"`
}

// Analyze compares the facts of every document in the arena. With
// fewer than two documents it returns a status-flagged report rather
// than an error.
func (c *Checker) Analyze() Report {
	docs := c.Documents()

	if len(docs) < 2 {
		return Report{
			Status:        StatusInsufficientDocuments,
			DocumentCount: len(docs),
		}
	}

	report := Report{Status: StatusOK, DocumentCount: len(docs)}

	report.DateDiscrepancies = groupDiscrepancies("date", docs, func(f Facts) []string { return f.Dates })
	report.LocationDiscrepancies = groupDiscrepancies("location", docs, func(f Facts) []string { return f.Locations })
	report.TimeDiscrepancies = timeDiscrepancies(docs)
	report.EventDiscrepancies = compareEventSequences(docs)

	report.TotalDiscrepancies = len(report.DateDiscrepancies) +
		len(report.LocationDiscrepancies) +
		len(report.TimeDiscrepancies) +
		len(report.EventDiscrepancies)
	report.Consistency = consistencyBand(report.TotalDiscrepancies)

	return report
}

// consistencyBand maps a total discrepancy count onto the fixed bands.
func consistencyBand(total int) string {
	switch {
	case total == 0:
		return ConsistencyConsistent
	case total <= 3:
		return ConsistencyMinor
	case total <= 7:
		return ConsistencyModerate
	default:
		return ConsistencyMajor
	}
}

// groupDiscrepancies groups one fact kind by normalized key across all
// documents. More than one distinct group means the documents
// disagree; the single discrepancy record lists every group.
func groupDiscrepancies(kind string, docs []Document, facts func(Facts) []string) []GroupedDiscrepancy {
	groups := make(map[string][]Occurrence)
	for i, doc := range docs {
		for _, v := range facts(doc.Facts) {
			key := normalizeKey(v)
			groups[key] = append(groups[key], Occurrence{DocumentIndex: i, Value: v})
		}
	}
	if len(groups) <= 1 {
		return nil
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := GroupedDiscrepancy{Kind: kind}
	for _, k := range keys {
		d.Groups = append(d.Groups, OccurrenceGroup{Normalized: k, Occurrences: groups[k]})
	}
	return []GroupedDiscrepancy{d}
}

// timeDiscrepancies pairwise-compares every distinct normalized time
// across the document set; any pair differing by more than five
// minutes is a discrepancy.
func timeDiscrepancies(docs []Document) []TimeDiscrepancy {
	seen := make(map[string]struct{})
	var distinct []string
	for _, doc := range docs {
		for _, t := range doc.Facts.Times {
			key := normalizeKey(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			distinct = append(distinct, key)
		}
	}

	var out []TimeDiscrepancy
	for i := 0; i < len(distinct); i++ {
		mi, ok := parseClockTime(distinct[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(distinct); j++ {
			mj, ok := parseClockTime(distinct[j])
			if !ok {
				continue
			}
			diff := mi - mj
			if diff < 0 {
				diff = -diff
			}
			if diff > timeToleranceMinutes {
				out = append(out, TimeDiscrepancy{
					Time1:       distinct[i],
					Time2:       distinct[j],
					DiffMinutes: diff,
				})
			}
		}
	}
	return out
}

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?\s*(am|pm)?$`)

// parseClockTime converts a normalized time string to minutes since
// midnight. A pm suffix on an hour below 12 adds 12 hours; "12am" maps
// to hour 0 and "12pm" stays hour 12 (explicit decision, see
// DESIGN.md).
func parseClockTime(s string) (int, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return 0, false
	}
	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour*60 + minute, true
}

// compareEventSequences flags events present in the first document but
// absent from the second. Only the first two documents are compared,
// one-directionally; the asymmetry is a documented limitation of the
// check, not an oversight.
func compareEventSequences(docs []Document) []EventDiscrepancy {
	if len(docs) < 2 {
		return nil
	}

	second := make(map[string]struct{}, len(docs[1].Facts.Events))
	for _, e := range docs[1].Facts.Events {
		second[strings.ToLower(e)] = struct{}{}
	}

	var out []EventDiscrepancy
	for _, e := range docs[0].Facts.Events {
		if _, ok := second[strings.ToLower(e)]; !ok {
			out = append(out, EventDiscrepancy{
				Event:       e,
				PresentIn:   0,
				MissingFrom: 1,
			})
		}
	}
	return out
}

// Describe renders a short human-readable summary of the report.
func (r Report) Describe() string {
	if r.Status == StatusInsufficientDocuments {
		return fmt.Sprintf("cross-reference requires at least 2 documents (have %d)", r.DocumentCount)
	}
	return fmt.Sprintf("%d documents, %d discrepancies, consistency %s",
		r.DocumentCount, r.TotalDiscrepancies, r.Consistency)
}
