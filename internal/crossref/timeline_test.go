package crossref

import (
	"testing"
	"time"
)

func TestBuildTimeline_ChronologicalOrder(t *testing.T) {
	text := `The analysis was conducted at 23:05 on 12 March 2024.
The vehicle was intercepted at 22:40 on 12 March 2024.
A summons issued on March 20, 2024.`

	entries := BuildTimeline(text)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].When.Before(entries[i-1].When) {
			t.Errorf("entries out of order: %v before %v", entries[i].When, entries[i-1].When)
		}
	}

	first := entries[0]
	want := time.Date(2024, time.March, 12, 22, 40, 0, 0, time.UTC)
	if !first.When.Equal(want) {
		t.Errorf("first entry = %v, want %v", first.When, want)
	}
	if !first.HasTime {
		t.Error("entry with a time in the sentence must set HasTime")
	}
}

func TestBuildTimeline_DateOnly(t *testing.T) {
	entries := BuildTimeline("The charge was filed on 1/4/2024 by the informant.")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].HasTime {
		t.Error("no time in sentence, HasTime must be false")
	}
	// Numeric dates are day-first.
	if entries[0].When.Month() != time.April {
		t.Errorf("month = %v, want April (day-first parsing)", entries[0].When.Month())
	}
}

func TestBuildTimeline_NoDates(t *testing.T) {
	if entries := BuildTimeline("Nothing dated happens in this text."); len(entries) != 0 {
		t.Errorf("expected no entries, got %v", entries)
	}
}
