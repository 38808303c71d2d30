package rules

import (
	"testing"
)

const compliantNarrative = `Brief of evidence. The informant intercepted the vehicle and observed
the accused driving erratically on the highway. The officer believed the driver had
consumed alcohol after observing bloodshot eyes and slurred speech. A preliminary
test was conducted and the accused was required to accompany the officer. A sample
was analysed within 3 hours of driving on a breath analysing instrument, returning
a reading above the prescribed concentration of 0.05.`

func TestCheckCompliance_CompliantSection(t *testing.T) {
	db := mustLoad(t)

	result := db.CheckCompliance(compliantNarrative, "Road_Safety_Act_1986", "49")
	if !result.Found {
		t.Fatalf("expected section to be found: %s", result.Problem)
	}
	if !result.Compliant {
		t.Errorf("expected compliant section, missing: %+v", result.Missing)
	}

	// Section compliance must equal conjunction over subsections.
	all := true
	for _, sub := range result.Subsections {
		if !sub.Compliant {
			all = false
		}
	}
	if result.Compliant != all {
		t.Error("section compliance must equal all(subsection.compliant)")
	}
}

func TestCheckCompliance_MissingRequiredElement(t *testing.T) {
	db := mustLoad(t)

	// No accompany requirement and no 3-hour window in the text.
	text := "The accused was driving and a sample was taken on a prescribed device."
	result := db.CheckCompliance(text, "Road_Safety_Act_1986", "55")

	if !result.Found {
		t.Fatalf("expected section to be found: %s", result.Problem)
	}
	if result.Compliant {
		t.Error("expected non-compliant section")
	}

	missing := map[string]MissingElement{}
	for _, m := range result.Missing {
		missing[m.Element] = m
	}
	m, ok := missing["three_hour_limit"]
	if !ok {
		t.Fatalf("expected three_hour_limit in missing elements, got %v", result.Missing)
	}
	if m.Reference != "s 55(1)" {
		t.Errorf("missing element reference = %q, want s 55(1)", m.Reference)
	}
	// Consequence text is authored in the database, never synthesized.
	if m.Consequence != "an analysis conducted outside the 3 hour window is inadmissible" {
		t.Errorf("consequence text altered: %q", m.Consequence)
	}
}

func TestCheckCompliance_SubsectionVerdictPerRequiredElements(t *testing.T) {
	db := mustLoad(t)

	result := db.CheckCompliance(compliantNarrative, "Road_Safety_Act_1986", "55")
	for _, sub := range result.Subsections {
		want := true
		for _, el := range sub.Elements {
			if el.Required && !el.Match.Present {
				want = false
			}
		}
		if sub.Compliant != want {
			t.Errorf("%s: compliant = %v, want %v", sub.Reference, sub.Compliant, want)
		}
	}
}

func TestCheckCompliance_ParagraphsIndependent(t *testing.T) {
	db := mustLoad(t)

	// Both ground (a) and ground (b) apply; both must be reported.
	text := "Police found the accused driving a motor vehicle shortly after a collision."
	result := db.CheckCompliance(text, "Road_Safety_Act_1986", "53")

	applicable := map[string]bool{}
	for _, p := range result.Paragraphs {
		applicable[p.Letter] = p.Applicable
	}
	if !applicable["a"] {
		t.Error("paragraph (a) should be applicable")
	}
	if !applicable["b"] {
		t.Error("paragraph (b) should be applicable")
	}
	if applicable["c"] {
		t.Error("paragraph (c) should not be applicable")
	}
}

func TestCheckCompliance_UnknownAct(t *testing.T) {
	db := mustLoad(t)

	result := db.CheckCompliance("text", "Imaginary_Act_1900", "1")
	if result.Found {
		t.Error("unknown act must report not found")
	}
	if result.Problem == "" {
		t.Error("expected a problem description")
	}
	if len(result.AvailableKeys) == 0 {
		t.Error("not-found result must list available act keys")
	}
}

func TestCheckCompliance_UnknownSection(t *testing.T) {
	db := mustLoad(t)

	result := db.CheckCompliance("text", "Road_Safety_Act_1986", "999")
	if result.Found {
		t.Error("unknown section must report not found")
	}
	found := false
	for _, k := range result.AvailableKeys {
		if k == "49" {
			found = true
		}
	}
	if !found {
		t.Errorf("available keys %v should include section 49", result.AvailableKeys)
	}
}

func TestExtractReferences_FourStyles(t *testing.T) {
	text := `The charge is laid under section 49 of the Act. See also s. 55(1),
s 53 and sec. 458 of the Crimes Act. Section 49 is cited twice.`

	refs := ExtractReferences(text)

	want := map[string]bool{}
	for _, r := range refs {
		want[r] = true
	}
	for _, expect := range []string{"section 49", "s. 55(1)", "s 53", "sec. 458"} {
		if !want[expect] {
			t.Errorf("expected reference %q in %v", expect, refs)
		}
	}

	// Deduplicated and sorted.
	for i := 1; i < len(refs); i++ {
		if refs[i-1] >= refs[i] {
			t.Errorf("references not sorted/deduplicated: %v", refs)
		}
	}
}

func TestIdentifyGoverningActs_RoundTrip(t *testing.T) {
	db := mustLoad(t)

	refs := ExtractReferences("The defendant relies on s.49(1)(g) of the Act.")
	if len(refs) != 1 {
		t.Fatalf("expected one reference, got %v", refs)
	}

	acts := db.IdentifyGoverningActs(refs)
	if len(acts) != 1 {
		t.Fatalf("expected exactly one governing act, got %d", len(acts))
	}
	if acts[0].Key != "Road_Safety_Act_1986" {
		t.Errorf("governing act = %s, want Road_Safety_Act_1986", acts[0].Key)
	}
	if len(acts[0].MatchingSections) != 1 || acts[0].MatchingSections[0] != "49" {
		t.Errorf("matching sections = %v, want [49]", acts[0].MatchingSections)
	}
}

func TestIdentifyGoverningActs_CollectsAllSections(t *testing.T) {
	db := mustLoad(t)

	refs := ExtractReferences("Charges under section 49 and s 55 of the Road Safety Act.")
	acts := db.IdentifyGoverningActs(refs)

	if len(acts) != 1 {
		t.Fatalf("expected one act, got %d", len(acts))
	}
	got := map[string]bool{}
	for _, s := range acts[0].MatchingSections {
		got[s] = true
	}
	if !got["49"] || !got["55"] {
		t.Errorf("matching sections %v should include 49 and 55", acts[0].MatchingSections)
	}
}

func TestLoad_Version(t *testing.T) {
	db := mustLoad(t)
	if db.Version == "" {
		t.Error("metadata version should be captured")
	}
	if _, ok := db.Acts["metadata"]; ok {
		t.Error("metadata key must not become an act")
	}
}
