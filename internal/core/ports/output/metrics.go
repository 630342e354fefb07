package ports

import (
	"time"

	"cinescope/internal/core/domain"
)

// Download outcomes used as metric labels
const (
	OutcomeCacheHit   = "cache_hit"
	OutcomeDownloaded = "downloaded"
	OutcomeFailed     = "failed"
)

// ProvisionMetrics records provisioning and load telemetry
type ProvisionMetrics interface {
	ObserveDownload(outcome string, bytes int64, duration time.Duration)
	ObserveFailure(kind string)
	ObserveLoad(report domain.LoadReport, duration time.Duration)
}
