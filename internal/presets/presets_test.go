package presets

import (
	"strings"
	"testing"

	"github.com/lexhound/statute-analyzer/pkg/models"
)

func TestAnalyze_AllPresetsRun(t *testing.T) {
	text := "The accused was served with a notice.\nA certificate was tendered."
	for _, name := range Names() {
		result, err := Analyze(name, text, nil)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if result.Preset != name {
			t.Errorf("result preset = %q, want %q", result.Preset, name)
		}
		if result.WordCount == 0 {
			t.Errorf("%s: word count not computed", name)
		}
		if result.LineCount != 2 {
			t.Errorf("%s: line count = %d, want 2", name, result.LineCount)
		}
	}
}

func TestAnalyze_UnknownPreset(t *testing.T) {
	if _, err := Analyze("telepathic", "text", nil); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestAnalyze_EvidentiaryFindings(t *testing.T) {
	text := "Line one.\nThe operator conceded the instrument was not calibrated.\nNo certificate was produced at the hearing."

	result, err := Analyze("evidentiary", text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byType := map[string]models.Finding{}
	for _, f := range result.Findings {
		byType[f.Type] = f
	}

	f, ok := byType["uncalibrated_instrument"]
	if !ok {
		t.Fatalf("expected uncalibrated_instrument finding, got %v", result.Findings)
	}
	if f.Severity != models.SeverityHigh {
		t.Errorf("uncalibrated_instrument severity = %s, want HIGH", f.Severity)
	}
	if f.Location != "line 2" {
		t.Errorf("location = %q, want line 2 (newline counting)", f.Location)
	}
	if !strings.Contains(f.Context, "not calibrated") {
		t.Errorf("context %q should contain the match", f.Context)
	}

	if f, ok := byType["missing_certificate"]; !ok {
		t.Error("expected missing_certificate finding")
	} else if f.Severity != models.SeverityCritical {
		t.Errorf("missing_certificate severity = %s, want CRITICAL", f.Severity)
	}
}

func TestAnalyze_IntentBalanceRule(t *testing.T) {
	// Five subjective verbs, one objective: 5 > 2*1.
	imbalanced := "He believed it. She suspected it. It appeared so. It seemed likely. He assumed it. The camera recorded nothing else."

	result, err := Analyze("intent", imbalanced, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var balance *models.Finding
	for i := range result.Findings {
		if result.Findings[i].Type == "subjective_objective_imbalance" {
			balance = &result.Findings[i]
		}
	}
	if balance == nil {
		t.Fatal("expected imbalance finding")
	}
	if balance.Severity != models.SeverityHigh {
		t.Errorf("imbalance severity = %s, want HIGH", balance.Severity)
	}
}

func TestAnalyze_IntentBalanceNotEmittedWhenEven(t *testing.T) {
	even := "He believed it after the instrument measured and recorded the reading, which he observed."

	result, err := Analyze("intent", even, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, f := range result.Findings {
		if f.Type == "subjective_objective_imbalance" {
			t.Error("imbalance finding should not fire when subjective <= 2x objective")
		}
	}
}

func TestAnalyze_ComparativeSingleDocument(t *testing.T) {
	result, err := Analyze("comparative", "only one document here", nil)
	if err != nil {
		t.Fatalf("single-document comparative must not error, got %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected exactly one finding, got %d", len(result.Findings))
	}
	f := result.Findings[0]
	if f.Severity != models.SeverityLow {
		t.Errorf("severity = %s, want LOW", f.Severity)
	}
	if f.Type != "insufficient_documents" {
		t.Errorf("type = %s, want insufficient_documents", f.Type)
	}
}

func TestAnalyze_ComparativeDivergence(t *testing.T) {
	doc1 := "The informant intercepted the vehicle near the intersection and observed the accused driving erratically before conducting the preliminary breath testing procedure."
	doc2 := "Quarterly financial statements disclose revenue, expenditure, depreciation schedules and shareholder distributions for the reporting period."

	result, err := Analyze("comparative", doc1, []string{doc2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, f := range result.Findings {
		if f.Type == "low_terminological_overlap" {
			found = true
		}
	}
	if !found {
		t.Error("expected low_terminological_overlap finding for unrelated documents")
	}
}

func TestAnalyze_KeyTerms(t *testing.T) {
	text := "A certificate concerning the calibration of the instrument and the continuity of the sample."
	result, err := Analyze("evidentiary", text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{"certificate": true, "calibration": true, "continuity": true, "instrument": true, "sample": true}
	for _, term := range result.KeyTerms {
		delete(want, term)
	}
	for term := range want {
		t.Errorf("expected key term %q in %v", term, result.KeyTerms)
	}
}
