package rules

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func mustLoad(t *testing.T) *Database {
	t.Helper()
	db, err := Load()
	if err != nil {
		t.Fatalf("failed to load rule database: %v", err)
	}
	return db
}

func TestMatch_OptionsAnyOf(t *testing.T) {
	e := &Element{
		Name:    "device",
		Options: []string{"breath analysing instrument", "prescribed device"},
	}

	text := "The sample was analysed on a Prescribed Device at the station."
	result := Match(text, e)

	if !result.Present {
		t.Error("expected element to be present")
	}
	if len(result.MatchedKeys) != 1 || result.MatchedKeys[0] != "prescribed device" {
		t.Errorf("expected matched key 'prescribed device', got %v", result.MatchedKeys)
	}

	// Presence must equal any-of case-insensitive containment.
	lower := strings.ToLower(text)
	any := false
	for _, opt := range e.Options {
		if strings.Contains(lower, strings.ToLower(opt)) {
			any = true
		}
	}
	if result.Present != any {
		t.Errorf("presence %v disagrees with any-of containment %v", result.Present, any)
	}
}

func TestMatch_OptionsAbsent(t *testing.T) {
	e := &Element{Name: "device", Options: []string{"approved instrument"}}

	result := Match("No relevant equipment is mentioned here.", e)
	if result.Present {
		t.Error("expected element to be absent")
	}
	if len(result.Evidence) != 0 {
		t.Errorf("expected no evidence, got %v", result.Evidence)
	}
}

func TestMatch_LiteralKeywordHarvestsContext(t *testing.T) {
	kw := Keyword{Kind: KindLiteral, Value: "prescribed concentration"}
	if err := kw.compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := &Element{Name: "pca", Keywords: []Keyword{kw}}

	text := strings.Repeat("x", 150) + " the PRESCRIBED CONCENTRATION of alcohol " + strings.Repeat("y", 150)
	result := Match(text, e)

	if !result.Present {
		t.Fatal("expected keyword match")
	}
	if len(result.Evidence) != 1 {
		t.Fatalf("expected one evidence snippet, got %d", len(result.Evidence))
	}
	if !strings.Contains(result.Evidence[0], "PRESCRIBED CONCENTRATION") {
		t.Errorf("evidence %q does not contain the match", result.Evidence[0])
	}
	// Window is capped at 100 characters each side of the match.
	if len(result.Evidence[0]) > len("prescribed concentration")+220 {
		t.Errorf("evidence snippet too long: %d chars", len(result.Evidence[0]))
	}
}

func TestMatch_PatternKeyword(t *testing.T) {
	kw := Keyword{Kind: KindPattern, Value: `driv(?:e|ing|er)`}
	if err := kw.compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := &Element{Name: "conduct", Keywords: []Keyword{kw}}

	result := Match("The accused was Driving south on the highway.", e)
	if !result.Present {
		t.Error("expected regex keyword to match 'Driving'")
	}
}

func TestMatch_DeduplicatesEvidence(t *testing.T) {
	kw := Keyword{Kind: KindLiteral, Value: "accident"}
	if err := kw.compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	e := &Element{Name: "crash", Keywords: []Keyword{kw}}

	// Two occurrences whose context windows collapse to one snippet.
	result := Match("accident accident", e)
	if !result.Present {
		t.Fatal("expected match")
	}
	if len(result.Evidence) != 1 {
		t.Errorf("expected deduplicated evidence, got %v", result.Evidence)
	}
	if len(result.MatchedKeys) != 1 {
		t.Errorf("expected deduplicated keys, got %v", result.MatchedKeys)
	}
}

func TestMatch_EmptyElementIsAbsent(t *testing.T) {
	result := Match("anything at all", &Element{Name: "empty"})
	if result.Present {
		t.Error("element with no match source must report absent")
	}
}

func TestKeywordUnmarshal_TaggedVariant(t *testing.T) {
	var kws []Keyword
	raw := `["plain literal", {"pattern": "with(in)?\\s+3\\s+hours"}]`
	if err := json.Unmarshal([]byte(raw), &kws); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []struct {
		kind  KeywordKind
		value string
	}{
		{KindLiteral, "plain literal"},
		{KindPattern, `with(in)?\s+3\s+hours`},
	}
	for i, w := range want {
		if kws[i].Kind != w.kind || kws[i].Value != w.value {
			t.Errorf("keyword %d = {%s %q}, want {%s %q}", i, kws[i].Kind, kws[i].Value, w.kind, w.value)
		}
	}
}

func TestEvaluateFramework_TwoLimbScenario(t *testing.T) {
	db := mustLoad(t)
	fw, ok := db.Frameworks["reasonable_belief"]
	if !ok {
		t.Fatal("reasonable_belief framework not in database")
	}

	text := "The officer believed the driver had consumed alcohol after observing bloodshot eyes"
	result := EvaluateFramework(text, &fw)

	if !result.Passed {
		t.Error("expected framework to pass")
	}
	for _, limb := range result.Limbs {
		if !limb.Found {
			t.Errorf("limb %s: expected indicators to be found", limb.Name)
		}
		if len(limb.InsufficientMatches) != 0 {
			t.Errorf("limb %s: unexpected insufficient matches %v", limb.Name, limb.InsufficientMatches)
		}
	}
}

func TestEvaluateFramework_InsufficientOverride(t *testing.T) {
	db := mustLoad(t)
	fw := db.Frameworks["reasonable_belief"]

	// Indicator and insufficient-indicator both present: override wins.
	text := "The officer believed, based on a gut feeling, after observing the driver."
	result := EvaluateFramework(text, &fw)

	var subjective *LimbResult
	for i := range result.Limbs {
		if result.Limbs[i].Name == "subjective" {
			subjective = &result.Limbs[i]
		}
	}
	if subjective == nil {
		t.Fatal("subjective limb missing from result")
	}
	if !subjective.Found {
		t.Error("subjective limb should have found 'believed'")
	}
	if subjective.Passed {
		t.Error("insufficient-indicator match must force the limb to fail")
	}
	if result.Passed {
		t.Error("framework must fail when a required limb fails")
	}
}

func TestEvaluateFramework_Idempotent(t *testing.T) {
	db := mustLoad(t)
	fw := db.Frameworks["reasonable_belief"]
	text := "The officer believed the driver was affected after observing slurred speech."

	first := EvaluateFramework(text, &fw)
	second := EvaluateFramework(text, &fw)
	if !reflect.DeepEqual(first, second) {
		t.Error("evaluating the same (text, framework) twice must yield identical results")
	}
}

func TestEvaluateFramework_MissingIndicatorList(t *testing.T) {
	fw := &TestFramework{
		Name: "degenerate",
		Limbs: map[string]Limb{
			"empty": {Required: true},
		},
	}

	// Malformed rule data must not error, just never match.
	result := EvaluateFramework("some text", fw)
	if result.Passed {
		t.Error("required limb with no indicators cannot pass")
	}
}
