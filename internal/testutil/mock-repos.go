package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
)

// MockDatasetSource is a mock of DatasetSource.
type MockDatasetSource struct {
	mock.Mock
}

func (m *MockDatasetSource) Fetch(ctx context.Context, remoteID string) (*ports.RemoteFile, error) {
	args := m.Called(ctx, remoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RemoteFile), args.Error(1)
}

// MockProvisionMetrics is a mock of ProvisionMetrics.
type MockProvisionMetrics struct {
	mock.Mock
}

func (m *MockProvisionMetrics) ObserveDownload(outcome string, bytes int64, d time.Duration) {
	m.Called(outcome, bytes, d)
}

func (m *MockProvisionMetrics) ObserveFailure(kind string) {
	m.Called(kind)
}

func (m *MockProvisionMetrics) ObserveLoad(report domain.LoadReport, d time.Duration) {
	m.Called(report, d)
}

// MockSnapshotRepo is a mock of SnapshotRepository.
type MockSnapshotRepo struct {
	mock.Mock
}

func (m *MockSnapshotRepo) ReplaceMovies(ctx context.Context, table *domain.Table) (int64, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSnapshotRepo) RecordLoad(ctx context.Context, file *domain.DatasetFile, report domain.LoadReport) error {
	args := m.Called(ctx, file, report)
	return args.Error(0)
}
