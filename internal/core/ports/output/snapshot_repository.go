package ports

import (
	"context"

	"cinescope/internal/core/domain"
)

// SnapshotRepository exports the loaded table for external BI tools
type SnapshotRepository interface {
	// ReplaceMovies swaps the stored snapshot for the rows of table.
	ReplaceMovies(ctx context.Context, table *domain.Table) (int64, error)
	// RecordLoad stores one row describing a completed load.
	RecordLoad(ctx context.Context, file *domain.DatasetFile, report domain.LoadReport) error
}
