// Package rules implements the statute rule database, the element
// matcher, the test-framework evaluator, the section compliance engine,
// and the statutory reference resolver.
package rules

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// KeywordKind distinguishes how a keyword matches text. The kind is
// chosen at data-authoring time: a bare JSON string is a literal
// substring, a {"pattern": "..."} object is a regular expression
// fragment. Interpretation is never inferred from string contents.
type KeywordKind string

const (
	KindLiteral KeywordKind = "literal"
	KindPattern KeywordKind = "pattern"
)

// Keyword is one searchable term on an element or paragraph.
type Keyword struct {
	Kind  KeywordKind
	Value string

	re *regexp.Regexp
}

// UnmarshalJSON accepts either a bare string (literal) or an object
// with a single "pattern" key (regular expression fragment).
func (k *Keyword) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		k.Kind = KindLiteral
		k.Value = s
		return nil
	}

	var obj struct {
		Pattern string `json:"pattern"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("keyword must be a string or a pattern object: %w", err)
	}
	if obj.Pattern == "" {
		return fmt.Errorf("pattern keyword is empty")
	}
	k.Kind = KindPattern
	k.Value = obj.Pattern
	return nil
}

// MarshalJSON writes the authored form back out.
func (k Keyword) MarshalJSON() ([]byte, error) {
	if k.Kind == KindPattern {
		return json.Marshal(struct {
			Pattern string `json:"pattern"`
		}{k.Value})
	}
	return json.Marshal(k.Value)
}

// compile builds the case-insensitive matcher for the keyword.
func (k *Keyword) compile() error {
	var expr string
	if k.Kind == KindPattern {
		expr = "(?i)" + k.Value
	} else {
		expr = "(?i)" + regexp.QuoteMeta(k.Value)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("keyword %q: %w", k.Value, err)
	}
	k.re = re
	return nil
}

// Limb is one prong of a multi-part legal test. A limb passes iff at
// least one indicator matches and no insufficient indicator matches.
type Limb struct {
	Required               bool     `json:"required"`
	Indicators             []string `json:"indicators"`
	InsufficientIndicators []string `json:"insufficientIndicators"`
}

// TestFramework is a named multi-limb belief test (for example the
// reasonable-belief subjective/objective test). The framework passes
// iff every required limb passes.
type TestFramework struct {
	Name      string          `json:"name"`
	Authority string          `json:"authority"`
	Limbs     map[string]Limb `json:"limbs"`
}

// Element is the smallest checkable requirement within a subsection.
// Exactly one of Keywords, GroundsList, Options, or TestFramework
// drives matching; presence is OR across whichever is set.
type Element struct {
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	Required           bool      `json:"required"`
	Keywords           []Keyword `json:"keywords,omitempty"`
	GroundsList        []string  `json:"groundsList,omitempty"`
	Options            []string  `json:"options,omitempty"`
	TestFrameworkName  string    `json:"testFramework,omitempty"`
	AbsenceConsequence string    `json:"absenceConsequence,omitempty"`

	framework *TestFramework
}

// Framework returns the resolved test framework, nil when the element
// is not framework-driven.
func (e *Element) Framework() *TestFramework {
	return e.framework
}

// Subsection is a numbered provision holding checkable elements.
type Subsection struct {
	Reference string    `json:"reference"`
	Elements  []Element `json:"elements"`
}

// Paragraph is one alternative ground within a paragraph-style section.
// Paragraphs are not mutually exclusive; any paragraph with at least
// one keyword match is applicable.
type Paragraph struct {
	Description string    `json:"description"`
	Keywords    []Keyword `json:"keywords"`
}

// Section is one section of an Act, holding subsections and optionally
// lettered paragraphs.
type Section struct {
	ID          string                `json:"-"`
	Title       string                `json:"title"`
	Subsections map[string]Subsection `json:"subsections,omitempty"`
	Paragraphs  map[string]Paragraph  `json:"paragraphs,omitempty"`
}

// Act is a named piece of legislation.
type Act struct {
	Key       string             `json:"-"`
	FullName  string             `json:"fullName"`
	ShortName string             `json:"shortName"`
	Category  string             `json:"category"`
	Sections  map[string]Section `json:"sections"`
}

// Database is the loaded rule database. Immutable after Load; shared
// reads need no locking.
type Database struct {
	Version    string
	Acts       map[string]Act
	Frameworks map[string]TestFramework
}
