package models

import (
	"time"
)

// Severity is the urgency label attached to a finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Finding is one reported observation. Findings are immutable once
// produced; identity is structural, never by pointer.
type Finding struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Context     string   `json:"context,omitempty"`
	Preset      string   `json:"preset,omitempty"`
}

// MatchResult is the outcome of matching one element against text.
type MatchResult struct {
	Present     bool     `json:"present"`
	Evidence    []string `json:"evidence,omitempty"`
	MatchedKeys []string `json:"matched_keys,omitempty"`
}

// Pattern is a recurring finding category tracked across analysis runs.
// Occurrences only ever increases for a given key.
type Pattern struct {
	Key            string    `json:"key"`
	Type           string    `json:"type"`
	Category       string    `json:"category"`
	Occurrences    int       `json:"occurrences"`
	TotalFrequency int       `json:"total_frequency"`
	Significance   string    `json:"significance"`
	FirstSeen      time.Time `json:"first_seen"`
}

// PresetResult is the output shape shared by all preset analyzers.
type PresetResult struct {
	Preset    string    `json:"preset"`
	WordCount int       `json:"word_count"`
	LineCount int       `json:"line_count"`
	KeyTerms  []string  `json:"key_terms"`
	Findings  []Finding `json:"findings"`
}

// TimelineEntry is one chronologically ordered event extracted from
// document text. When only a date was found, HasTime is false and the
// time-of-day component is midnight.
type TimelineEntry struct {
	When    time.Time `json:"when"`
	HasTime bool      `json:"has_time"`
	Snippet string    `json:"snippet"`
}
