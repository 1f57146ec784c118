// Package store persists digest runs behind a driver-neutral interface.
// SQLite backs single-user CLI usage; Postgres backs the shared server.
package store

import (
	"context"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status  model.RunStatus `json:"status,omitempty"`
	Keyword string          `json:"keyword,omitempty"`
	Limit   int             `json:"limit,omitempty"`
	Offset  int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for digest runs.
type Store interface {
	CreateRun(ctx context.Context, keywords []string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// runStatusFor maps a finished pipeline result onto the persisted run status.
func runStatusFor(result *model.RunResult) model.RunStatus {
	if result != nil && result.Status == model.StatusError {
		return model.RunStatusFailed
	}
	return model.RunStatusComplete
}
