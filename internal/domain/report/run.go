package report

import (
	"context"
	"time"
)

// Run is the persisted summary of one validation pass.
// Corresponds to the 'validation_runs' table.
type Run struct {
	ID                  int64     `json:"id"`
	RunAt               time.Time `json:"run_at"`
	RecordCount         int       `json:"record_count"`
	HourMismatchCount   int       `json:"hour_mismatch_count"`
	DuplicateGroupCount int       `json:"duplicate_group_count"`
	OverlapCount        int       `json:"overlap_count"`
	MalformedCount      int       `json:"malformed_count"`
	CreatedAt           time.Time `json:"created_at"`
}

// RunRepository defines the operations for persisting and retrieving run summaries.
type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	ListRecent(ctx context.Context, limit int) ([]*Run, error)
}
