package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// CSVExporter exports usage records to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

var csvHeader = []string{
	"id", "request_id", "client_key",
	"tier", "model", "outcome",
	"age_tier", "minutes",
	"tokens_used", "estimated_cost", "actual_cost",
	"duration_ms", "created_at", "error",
}

// Export writes records to w in CSV format.
func (e *CSVExporter) Export(ctx context.Context, records []*usage.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return usage.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(recordToRow(record)); err != nil {
			return usage.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return usage.NewExportError("csv", len(records), err)
	}
	return nil
}

func recordToRow(r *usage.Record) []string {
	return []string{
		r.ID,
		r.RequestID,
		r.ClientKey,
		r.Tier,
		r.Model,
		string(r.Outcome),
		r.AgeTier,
		strconv.Itoa(r.Minutes),
		strconv.Itoa(r.TokensUsed),
		strconv.FormatFloat(r.EstimatedCost, 'f', -1, 64),
		strconv.FormatFloat(r.ActualCost, 'f', -1, 64),
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.Error,
	}
}

// ForFormat returns the exporter for "json" or "csv".
func ForFormat(format string) (usage.Exporter, bool) {
	switch format {
	case "json":
		return NewJSONExporter(true), true
	case "csv":
		return NewCSVExporter(true), true
	default:
		return nil, false
	}
}
