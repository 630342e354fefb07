package domain

import "time"

type DatasetState string

const (
	DatasetStateAbsent         DatasetState = "ABSENT"
	DatasetStateDownloading    DatasetState = "DOWNLOADING"
	DatasetStatePresentValid   DatasetState = "PRESENT_VALID"
	DatasetStatePresentCorrupt DatasetState = "PRESENT_CORRUPT"
)

// DatasetFile is the locally cached copy of the remote dataset.
type DatasetFile struct {
	RemoteID  string       `json:"remote_id"`
	Path      string       `json:"path"`
	SizeBytes int64        `json:"size_bytes"`
	State     DatasetState `json:"state"`
	CacheHit  bool         `json:"cache_hit"`
	FetchedAt *time.Time   `json:"fetched_at,omitempty"`
}

// DatasetSpec describes what the provisioner has to guarantee on disk.
type DatasetSpec struct {
	Path     string
	RemoteID string
	// ExpectedSize is only used for progress reporting.
	ExpectedSize int64
	Refresh      bool
}
