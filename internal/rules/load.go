package rules

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed data/acts.json data/frameworks.json
var ruleData embed.FS

// Load parses the embedded rule database. The acts document is keyed
// by Act identifier with a single "metadata" key that is skipped when
// building the tree; frameworks load from their own document. Load is
// called once at startup; the returned Database is read-only.
func Load() (*Database, error) {
	actsRaw, err := ruleData.ReadFile("data/acts.json")
	if err != nil {
		return nil, fmt.Errorf("read acts: %w", err)
	}
	frameworksRaw, err := ruleData.ReadFile("data/frameworks.json")
	if err != nil {
		return nil, fmt.Errorf("read frameworks: %w", err)
	}
	return Parse(actsRaw, frameworksRaw)
}

// Parse builds a Database from raw JSON documents. Exposed separately
// from Load so hosts can inject their own rule data.
func Parse(actsRaw, frameworksRaw []byte) (*Database, error) {
	var frameworks map[string]TestFramework
	if err := json.Unmarshal(frameworksRaw, &frameworks); err != nil {
		return nil, fmt.Errorf("parse frameworks: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(actsRaw, &top); err != nil {
		return nil, fmt.Errorf("parse acts: %w", err)
	}

	db := &Database{
		Acts:       make(map[string]Act, len(top)),
		Frameworks: frameworks,
	}

	for key, raw := range top {
		if key == "metadata" {
			var meta struct {
				Version string `json:"version"`
			}
			if err := json.Unmarshal(raw, &meta); err == nil {
				db.Version = meta.Version
			}
			continue
		}

		var act Act
		if err := json.Unmarshal(raw, &act); err != nil {
			return nil, fmt.Errorf("parse act %q: %w", key, err)
		}
		act.Key = key

		for sectionID, section := range act.Sections {
			section.ID = sectionID
			for subID, sub := range section.Subsections {
				for i := range sub.Elements {
					if err := prepareElement(&sub.Elements[i], frameworks); err != nil {
						return nil, fmt.Errorf("%s s %s(%s): %w", key, sectionID, subID, err)
					}
				}
				section.Subsections[subID] = sub
			}
			for letter, para := range section.Paragraphs {
				for i := range para.Keywords {
					if err := para.Keywords[i].compile(); err != nil {
						return nil, fmt.Errorf("%s s %s(%s): %w", key, sectionID, letter, err)
					}
				}
				section.Paragraphs[letter] = para
			}
			act.Sections[sectionID] = section
		}

		db.Acts[key] = act
	}

	return db, nil
}

func prepareElement(e *Element, frameworks map[string]TestFramework) error {
	for i := range e.Keywords {
		if err := e.Keywords[i].compile(); err != nil {
			return err
		}
	}
	if e.TestFrameworkName != "" {
		fw, ok := frameworks[e.TestFrameworkName]
		if !ok {
			return fmt.Errorf("element %q references unknown test framework %q", e.Name, e.TestFrameworkName)
		}
		e.framework = &fw
	}
	return nil
}

// ActKeys returns all Act identifiers in sorted order.
func (db *Database) ActKeys() []string {
	keys := make([]string, 0, len(db.Acts))
	for k := range db.Acts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SectionIDs returns the section identifiers of one Act in sorted
// order, or nil when the Act is unknown.
func (db *Database) SectionIDs(actKey string) []string {
	act, ok := db.Acts[actKey]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(act.Sections))
	for id := range act.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
