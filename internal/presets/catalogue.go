package presets

import (
	"regexp"

	"github.com/lexhound/statute-analyzer/pkg/models"
)

// catalogue holds the fixed rule tables for the seven scanning
// presets; the comparative preset has no rule table.
var catalogue = map[string]preset{
	"procedural": {
		keyTerms: []string{
			"charge", "summons", "notice", "served", "requirement",
			"caution", "warrant", "accompany",
		},
		rules: []rule{
			{
				findingType: "missing_service_date",
				pattern:     regexp.MustCompile(`(?i)\bserved on an? (?:unknown|unspecified|unrecorded) date\b|\bdate of service (?:is )?(?:unknown|not recorded)\b`),
				severity:    models.SeverityMedium,
				description: "service is asserted without an accompanying service date",
			},
			{
				findingType: "caution_not_recorded",
				pattern:     regexp.MustCompile(`(?i)\bno caution\b|\bwithout caution(?:ing)?\b|\bfailed to caution\b`),
				severity:    models.SeverityHigh,
				description: "the document records that no caution was administered",
			},
			{
				findingType: "requirement_unspecified",
				pattern:     regexp.MustCompile(`(?i)\brequired to\b[^.]{0,60}\bunspecified\b`),
				severity:    models.SeverityMedium,
				description: "a statutory requirement is referenced without its terms",
			},
			{
				findingType: "out_of_time",
				pattern:     regexp.MustCompile(`(?i)\bout of time\b|\bafter the (?:limitation|statutory) period\b|\btime[- ]barred\b`),
				severity:    models.SeverityHigh,
				description: "the document indicates a step taken outside a statutory time limit",
			},
		},
	},
	"contextual": {
		keyTerms: []string{
			"scene", "location", "weather", "lighting", "traffic",
			"roadside", "intersection",
		},
		rules: []rule{
			{
				findingType: "missing_location",
				pattern:     regexp.MustCompile(`(?i)\bat an? (?:unknown|unspecified) location\b`),
				severity:    models.SeverityMedium,
				description: "the place of the alleged conduct is not identified",
			},
			{
				findingType: "conditions_unrecorded",
				pattern:     regexp.MustCompile(`(?i)\bconditions (?:were )?not recorded\b|\bno note of (?:the )?(?:weather|lighting)\b`),
				severity:    models.SeverityLow,
				description: "environmental conditions relevant to observation are unrecorded",
			},
			{
				findingType: "approximate_time_only",
				pattern:     regexp.MustCompile(`(?i)\b(?:approximately|about|around)\s+\d{1,2}[:.]\d{2}\b`),
				severity:    models.SeverityLow,
				description: "a material time is given only approximately",
			},
		},
	},
	"jurisprudential": {
		keyTerms: []string{
			"authority", "precedent", "appeal", "discretion", "admissibility",
		},
		rules: []rule{
			{
				findingType: "unsupported_legal_conclusion",
				pattern:     regexp.MustCompile(`(?i)\b(?:clearly|obviously|undoubtedly) (?:guilty|liable|in breach)\b`),
				severity:    models.SeverityHigh,
				description: "a legal conclusion is asserted without supporting authority",
			},
			{
				findingType: "uncited_authority",
				pattern:     regexp.MustCompile(`(?i)\bwell[- ]established (?:law|principle|authority)\b`),
				severity:    models.SeverityMedium,
				description: "established principle is invoked without citation",
			},
			{
				findingType: "discretion_unaddressed",
				pattern:     regexp.MustCompile(`(?i)\bmandatory\b[^.]{0,60}\bno discretion\b`),
				severity:    models.SeverityLow,
				description: "a discretionary power is characterised as mandatory",
			},
		},
	},
	"textual": {
		keyTerms: []string{
			"paragraph", "annexure", "exhibit", "schedule", "clause",
		},
		rules: []rule{
			{
				findingType: "dangling_reference",
				pattern:     regexp.MustCompile(`(?i)\b(?:see|refer to) (?:annexure|exhibit|schedule) [A-Z]?\s*\[?\s*(?:missing|omitted|not attached)\b`),
				severity:    models.SeverityHigh,
				description: "the document refers to an annexure or exhibit that is not attached",
			},
			{
				findingType: "placeholder_text",
				pattern:     regexp.MustCompile(`(?i)\[(?:insert|tbc|tbd|to be confirmed|xx+)\]`),
				severity:    models.SeverityHigh,
				description: "placeholder text remains in the document",
			},
			{
				findingType: "inconsistent_numbering",
				pattern:     regexp.MustCompile(`(?i)\bparagraph \d+[a-z]? (?:above|below) does not (?:exist|appear)\b`),
				severity:    models.SeverityMedium,
				description: "an internal paragraph cross-reference does not resolve",
			},
		},
	},
	"intent": {
		keyTerms: []string{
			"believed", "suspected", "intended", "observed", "deliberate",
			"knowingly",
		},
		rules: []rule{
			{
				findingType: "bare_assertion_of_intent",
				pattern:     regexp.MustCompile(`(?i)\b(?:clearly|obviously) intended\b`),
				severity:    models.SeverityMedium,
				description: "intent is asserted without stating the observed basis",
			},
			{
				findingType: "speculative_language",
				pattern:     regexp.MustCompile(`(?i)\bmust have (?:known|intended|seen|realised|realized)\b`),
				severity:    models.SeverityMedium,
				description: "speculation about the accused's state of mind",
			},
		},
	},
	"purposive": {
		keyTerms: []string{
			"purpose", "object", "parliament", "intention of the legislature",
			"mischief",
		},
		rules: []rule{
			{
				findingType: "purpose_contradiction",
				pattern:     regexp.MustCompile(`(?i)\bcontrary to the (?:purpose|object) of the act\b`),
				severity:    models.SeverityMedium,
				description: "the document concedes a construction contrary to the Act's purpose",
			},
			{
				findingType: "literalism_flag",
				pattern:     regexp.MustCompile(`(?i)\bstrict(?:ly)? literal (?:reading|construction|interpretation)\b`),
				severity:    models.SeverityLow,
				description: "a strictly literal construction is relied on without purposive support",
			},
		},
	},
	"evidentiary": {
		keyTerms: []string{
			"certificate", "continuity", "exhibit", "sample", "instrument",
			"calibration", "corroboration",
		},
		rules: []rule{
			{
				findingType: "missing_certificate",
				pattern:     regexp.MustCompile(`(?i)\bno certificate\b|\bcertificate (?:was )?not (?:produced|tendered|signed)\b`),
				severity:    models.SeverityCritical,
				description: "a required evidentiary certificate is absent",
			},
			{
				findingType: "continuity_gap",
				pattern:     regexp.MustCompile(`(?i)\bcontinuity (?:of the )?(?:sample|exhibit)?\s*(?:was |is )?(?:broken|not established|unaccounted)\b`),
				severity:    models.SeverityHigh,
				description: "continuity of an exhibit or sample is not established",
			},
			{
				findingType: "uncalibrated_instrument",
				pattern:     regexp.MustCompile(`(?i)\bnot calibrated\b|\bcalibration (?:records? )?(?:unavailable|missing|expired)\b`),
				severity:    models.SeverityHigh,
				description: "the measuring instrument's calibration is not proved",
			},
			{
				findingType: "hearsay_flag",
				pattern:     regexp.MustCompile(`(?i)\b(?:was )?told by (?:another|a third party|an? (?:unknown|unidentified) person)\b`),
				severity:    models.SeverityMedium,
				description: "a material fact rests on an out-of-court statement",
			},
		},
	},
}
