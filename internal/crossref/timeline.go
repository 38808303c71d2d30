package crossref

import (
	"sort"
	"strings"
	"time"

	"github.com/lexhound/statute-analyzer/pkg/models"
)

// dateLayouts pairs each date regex with the layouts it may parse as.
// Numeric dates read day-first, the local convention for this rule
// set.
var dateLayouts = [][]string{
	{"2/1/2006", "2/1/06"},
	{"2 January 2006"},
	{"January 2, 2006", "January 2 2006"},
}

// BuildTimeline extracts dated events from the text and orders them
// chronologically. A time-of-day found in the same sentence as a date
// is attached to the entry; otherwise the entry sits at midnight with
// HasTime false.
func BuildTimeline(text string) []models.TimelineEntry {
	var entries []models.TimelineEntry

	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		var when time.Time
		found := false
		for i, re := range dateRes {
			match := re.FindString(sentence)
			if match == "" {
				continue
			}
			for _, layout := range dateLayouts[i] {
				if t, err := time.Parse(layout, match); err == nil {
					when = t
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			continue
		}

		entry := models.TimelineEntry{When: when, Snippet: sentence}
		if ts := timeRe.FindString(sentence); ts != "" {
			if minutes, ok := parseClockTime(normalizeKey(ts)); ok {
				entry.When = entry.When.Add(time.Duration(minutes) * time.Minute)
				entry.HasTime = true
			}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].When.Before(entries[j].When)
	})
	return entries
}
