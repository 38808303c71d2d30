// Package export renders a finished analysis result in an external
// format. Only the shapes defined by the core are consumed; report
// layout beyond json and csv is a host concern.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/lexhound/statute-analyzer/internal/classify"
)

// Formats supported by Export.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Export renders a classification result. Unknown formats are an
// error; the caller chooses how to surface it.
func Export(result classify.Result, format string) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("marshal result: %w", err)
		}
		return data, "application/json", nil
	case FormatCSV:
		data, err := toCSV(result)
		if err != nil {
			return nil, "", err
		}
		return data, "text/csv", nil
	default:
		return nil, "", fmt.Errorf("unknown export format %q", format)
	}
}

func toCSV(result classify.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"type", "category", "severity", "recommended_severity", "description", "location", "preset"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range result.Classified {
		row := []string{
			c.Type,
			string(c.Category),
			string(c.Severity),
			string(c.RecommendedSeverity),
			c.Description,
			c.Location,
			c.Preset,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
