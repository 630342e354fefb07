package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
)

// DatasetService hands the loaded, read-only table to the presentation layer
type DatasetService struct {
	file  *domain.DatasetFile
	table *domain.Table
}

// NewDatasetService wraps an already provisioned and loaded dataset
func NewDatasetService(file *domain.DatasetFile, table *domain.Table) *DatasetService {
	return &DatasetService{file: file, table: table}
}

// DatasetInfo is the /dataset response
type DatasetInfo struct {
	File   *domain.DatasetFile `json:"file"`
	Rows   int                 `json:"rows"`
	Report domain.LoadReport   `json:"report"`
}

// Dataset returns the table handle, or ErrDatasetUnavailable when nothing was loaded.
func (s *DatasetService) Dataset() (*domain.Table, error) {
	if s == nil || s.table == nil {
		return nil, domain.ErrDatasetUnavailable
	}
	return s.table, nil
}

func (s *DatasetService) Info() (*DatasetInfo, error) {
	table, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return &DatasetInfo{File: s.file, Rows: table.Len(), Report: table.Report()}, nil
}

// Bootstrap runs the startup pipeline: provision the file, load it, derive
// columns and optionally export a snapshot. Snapshot failures are logged,
// everything else aborts.
func Bootstrap(
	ctx context.Context,
	provisioner *ProvisionerService,
	loader *LoaderService,
	snapshots ports.SnapshotRepository,
	spec domain.DatasetSpec,
) (*DatasetService, error) {
	file, err := provisioner.Ensure(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("provision dataset: %w", err)
	}

	table, err := loader.Load(ctx, file.Path)
	if err != nil {
		file.State = domain.DatasetStatePresentCorrupt
		return nil, fmt.Errorf("load dataset %s: %w", file.Path, err)
	}

	if snapshots != nil {
		n, err := snapshots.ReplaceMovies(ctx, table)
		if err != nil {
			log.WithError(err).Warn("dataset snapshot export failed")
		} else {
			log.WithField("rows", n).Info("dataset snapshot exported")
			if err := snapshots.RecordLoad(ctx, file, table.Report()); err != nil {
				log.WithError(err).Warn("record dataset load failed")
			}
		}
	}

	return NewDatasetService(file, table), nil
}
