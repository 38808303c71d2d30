// Package patterns tracks recurring defect patterns across analysis
// runs. The learned state lives in an explicit Store owned by the
// caller, never in package-level variables, so tests and data wipes
// stay isolated.
package patterns

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/lexhound/statute-analyzer/internal/classify"
	"github.com/lexhound/statute-analyzer/pkg/models"
)

// Detection thresholds. Fixed values carried over unchanged.
const (
	recurringThreshold = 3
	temporalThreshold  = 5
	criticalThreshold  = 3
)

type entry struct {
	Type           string
	Category       string
	Count          int
	TotalFrequency int
	FirstSeen      time.Time
}

// Store holds the learned pattern counters for the process lifetime.
// A single mutex serializes learners; counters only ever increase.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore creates an empty pattern store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Learner records classified findings into its store.
type Learner struct {
	store *Store
	now   func() time.Time
}

// NewLearner creates a learner over the given store.
func NewLearner(store *Store) *Learner {
	return &Learner{store: store, now: time.Now}
}

// key is type:category, the identity of a pattern.
func key(findingType string, category classify.Category) string {
	return findingType + ":" + string(category)
}

// Candidate is a transient pattern candidate produced by detection.
type Candidate struct {
	Key       string `json:"key"`
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Frequency int    `json:"frequency"`
}

// DetectPatterns is a pure function producing transient candidates
// from one run's classified findings: recurring-type clusters,
// temporal-density clusters, and critical-issue clusters, each gated
// by its fixed threshold.
func DetectPatterns(findings []classify.Classified) []Candidate {
	byKey := make(map[string]*Candidate)
	var order []string

	add := func(k, kind, typ, category string) {
		c, ok := byKey[k]
		if !ok {
			c = &Candidate{Key: k, Kind: kind, Type: typ, Category: category}
			byKey[k] = c
			order = append(order, k)
		}
		c.Frequency++
	}

	for _, f := range findings {
		add(key(f.Type, f.Category), "recurring", f.Type, string(f.Category))
		if f.Category == classify.CategoryTemporal {
			add("temporal_density:"+string(f.Category), "temporal_density", "temporal_density", string(f.Category))
		}
		if f.Severity == models.SeverityCritical {
			add("critical_issues:"+string(f.Category), "critical_cluster", "critical_issues", string(f.Category))
		}
	}

	var out []Candidate
	for _, k := range order {
		c := byKey[k]
		threshold := recurringThreshold
		switch c.Kind {
		case "temporal_density":
			threshold = temporalThreshold
		case "critical_cluster":
			threshold = criticalThreshold
		}
		if c.Frequency >= threshold {
			out = append(out, *c)
		}
	}
	return out
}

// Learn merges one run's classified findings into the store: each
// distinct type:category key has its occurrence count incremented once
// per run and its total frequency advanced by the run's finding count.
// Counters never decrease.
func (l *Learner) Learn(findings []classify.Classified) {
	if len(findings) == 0 {
		return
	}

	perKey := make(map[string]int)
	meta := make(map[string]classify.Classified)
	for _, f := range findings {
		k := key(f.Type, f.Category)
		perKey[k]++
		meta[k] = f
	}

	now := l.now()
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	for k, freq := range perKey {
		e, ok := l.store.entries[k]
		if !ok {
			f := meta[k]
			e = &entry{Type: f.Type, Category: string(f.Category), FirstSeen: now}
			l.store.entries[k] = e
		}
		e.Count++
		e.TotalFrequency += freq
	}
}

// LearnedPatterns returns a snapshot sorted by occurrence count
// descending, ties broken by key for determinism. Significance is
// derived from how far a pattern's count sits above the mean count
// across all learned patterns.
func (l *Learner) LearnedPatterns() []models.Pattern {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	counts := make([]float64, 0, len(l.store.entries))
	for _, e := range l.store.entries {
		counts = append(counts, float64(e.Count))
	}
	mean, std := stat.MeanStdDev(counts, nil)

	out := make([]models.Pattern, 0, len(l.store.entries))
	for k, e := range l.store.entries {
		out = append(out, models.Pattern{
			Key:            k,
			Type:           e.Type,
			Category:       e.Category,
			Occurrences:    e.Count,
			TotalFrequency: e.TotalFrequency,
			Significance:   significance(float64(e.Count), mean, std),
			FirstSeen:      e.FirstSeen,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// significance bands a count by its z-score against the population of
// learned patterns. With one pattern (or zero spread) everything is
// "normal".
func significance(count, mean, std float64) string {
	if std == 0 || count == mean {
		return "normal"
	}
	z := (count - mean) / std
	switch {
	case z >= 1:
		return "high"
	case z <= -1:
		return "low"
	default:
		return "normal"
	}
}

// Reset clears the store entirely. Used only on an explicit data-wipe
// request.
func (l *Learner) Reset() {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.entries = make(map[string]*entry)
}

// Describe renders one pattern for logs.
func Describe(p models.Pattern) string {
	return fmt.Sprintf("%s seen in %d runs (%d findings, significance %s)",
		p.Key, p.Occurrences, p.TotalFrequency, p.Significance)
}
