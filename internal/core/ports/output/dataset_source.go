package ports

import (
	"context"
	"io"
)

// RemoteFile is an open download stream for a remote dataset.
type RemoteFile struct {
	Body io.ReadCloser
	// Size is the announced content length, -1 when unknown.
	Size int64
	// Confirmed is true when an interstitial page had to be confirmed first.
	Confirmed bool
}

// DatasetSource defines the contract for fetching a dataset from a remote host
type DatasetSource interface {
	// Fetch opens a stream for the remote file. The caller must close Body.
	// Errors wrap domain.ErrNetwork, domain.ErrRemoteFile or domain.ErrConfirmationParse.
	Fetch(ctx context.Context, remoteID string) (*RemoteFile, error)
}
