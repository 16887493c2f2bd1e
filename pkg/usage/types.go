package usage

import (
	"context"
	"io"
	"time"
)

// Outcome is the terminal state of an admitted request.
type Outcome string

const (
	// OutcomeSuccess means a story was returned to the client.
	OutcomeSuccess Outcome = "success"

	// OutcomeUpstreamFailure means the provider call failed.
	OutcomeUpstreamFailure Outcome = "upstream_failure"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeSuccess || o == OutcomeUpstreamFailure
}

// Record is one journal entry.
type Record struct {
	ID        string `json:"id"`         // UUID v4, assigned by the recorder
	RequestID string `json:"request_id"` // From the request ID middleware
	ClientKey string `json:"client_key"` // Redacted when PII redaction is on

	Tier    string  `json:"tier"`
	Model   string  `json:"model"`
	Outcome Outcome `json:"outcome"`

	AgeTier string `json:"age_tier,omitempty"`
	Minutes int    `json:"minutes,omitempty"`

	TokensUsed    int     `json:"tokens_used"`
	EstimatedCost float64 `json:"estimated_cost"` // Admission placeholder
	ActualCost    float64 `json:"actual_cost"`    // Post-call charge

	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Query filters journal records. Zero fields do not filter.
type Query struct {
	Since *time.Time `json:"since,omitempty"` // Inclusive
	Until *time.Time `json:"until,omitempty"` // Exclusive

	ClientKey string  `json:"client_key,omitempty"`
	Tier      string  `json:"tier,omitempty"`
	Outcome   Outcome `json:"outcome,omitempty"`

	Limit  int `json:"limit,omitempty"`  // Max records to return (default 100)
	Offset int `json:"offset,omitempty"` // Skip N records
}

// DefaultQueryLimit is used when Query.Limit is zero.
const DefaultQueryLimit = 100

// Totals aggregates the records matching a query. Limit and Offset are
// ignored.
type Totals struct {
	Records       int64   `json:"records"`
	Successes     int64   `json:"successes"`
	Failures      int64   `json:"failures"`
	TokensUsed    int64   `json:"tokens_used"`
	EstimatedCost float64 `json:"estimated_cost"`
	ActualCost    float64 `json:"actual_cost"`
}

// Storage persists journal records.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns matching records, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Totals aggregates matching records.
	Totals(ctx context.Context, query *Query) (*Totals, error)

	// Delete removes matching records and returns how many were removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}

// Exporter writes records in an output format.
type Exporter interface {
	Export(ctx context.Context, records []*Record, w io.Writer) error
}
