package domain

import "errors"

// ============================================================================
// Provisioning Errors
// ============================================================================

var (
	ErrNetwork           = errors.New("network error: remote host unreachable or transfer interrupted")
	ErrRemoteFile        = errors.New("remote file error: file missing or access denied")
	ErrConfirmationParse = errors.New("confirmation token not found in interstitial page")
	ErrDisk              = errors.New("disk error")
)

// ============================================================================
// Load Errors
// ============================================================================

var (
	ErrSchema = errors.New("dataset schema error")
	// ErrParse is per-row and never aborts a load; it is counted in LoadReport.
	ErrParse = errors.New("field could not be parsed")
)

// ============================================================================
// Query Errors
// ============================================================================

var (
	ErrDatasetUnavailable = errors.New("dataset is not available")
	ErrInvalidRange       = errors.New("invalid year range")
	ErrInvalidFeature     = errors.New("feature must be one of revenue, budget, roi, popularity")
	ErrInvalidColumn      = errors.New("unknown numeric column")
	ErrInvalidLimit       = errors.New("limit must be between 1 and 100000")
)
