package export

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// JSONExporter exports usage records as a JSON array.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes records to w. An empty slice is written as [].
func (e *JSONExporter) Export(ctx context.Context, records []*usage.Record, w io.Writer) error {
	if records == nil {
		records = []*usage.Record{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return usage.NewExportError("json", len(records), err)
	}
	return nil
}
