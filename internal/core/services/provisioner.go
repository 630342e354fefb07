package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
)

const defaultRetryWait = 2 * time.Second

// ProvisionerService guarantees a complete local copy of the remote dataset
type ProvisionerService struct {
	source    ports.DatasetSource
	metrics   ports.ProvisionMetrics
	retryMax  int
	retryWait time.Duration
	now       func() time.Time
}

// NewProvisionerService creates a new provisioner. retryMax is the number of
// extra attempts after a network failure; 0 disables retries.
func NewProvisionerService(source ports.DatasetSource, metrics ports.ProvisionMetrics, retryMax int, retryWait time.Duration) *ProvisionerService {
	if retryMax < 0 {
		retryMax = 0
	}
	if retryWait <= 0 {
		retryWait = defaultRetryWait
	}
	return &ProvisionerService{
		source:    source,
		metrics:   metrics,
		retryMax:  retryMax,
		retryWait: retryWait,
		now:       time.Now,
	}
}

// Ensure returns the cached file when present, otherwise downloads it.
// After a nil error the path holds a complete file; after an error no file
// that could pass as a cache hit is left behind.
func (s *ProvisionerService) Ensure(ctx context.Context, spec domain.DatasetSpec) (*domain.DatasetFile, error) {
	if spec.Path == "" {
		return nil, fmt.Errorf("%w: dataset path is empty", domain.ErrDisk)
	}
	if spec.RemoteID == "" {
		return nil, fmt.Errorf("%w: remote file id is empty", domain.ErrRemoteFile)
	}

	file := &domain.DatasetFile{
		RemoteID: spec.RemoteID,
		Path:     spec.Path,
		State:    domain.DatasetStateAbsent,
	}

	if !spec.Refresh {
		size, ok, err := cachedSize(spec.Path)
		if err != nil {
			s.observeFailure(err)
			return nil, err
		}
		if ok {
			file.SizeBytes = size
			file.State = domain.DatasetStatePresentValid
			file.CacheHit = true
			log.WithFields(log.Fields{"path": spec.Path, "size_bytes": size}).Info("dataset already present, skipping download")
			if s.metrics != nil {
				s.metrics.ObserveDownload(ports.OutcomeCacheHit, 0, 0)
			}
			return file, nil
		}
	}

	file.State = domain.DatasetStateDownloading
	log.WithFields(log.Fields{
		"remote_id":     spec.RemoteID,
		"path":          spec.Path,
		"expected_size": humanBytes(spec.ExpectedSize),
	}).Info("downloading dataset")

	start := s.now()
	var written int64
	operation := func() error {
		n, err := s.download(ctx, spec)
		if err != nil {
			if errors.Is(err, domain.ErrNetwork) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		written = n
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryWait
	policy.MaxElapsedTime = 0
	err := backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.retryMax)), ctx),
		func(err error, wait time.Duration) {
			log.WithError(err).WithField("retry_in", wait.String()).Warn("dataset download failed, retrying")
		})
	if err != nil {
		file.State = domain.DatasetStateAbsent
		s.observeFailure(err)
		return nil, err
	}

	elapsed := s.now().Sub(start)
	fetchedAt := s.now()
	file.SizeBytes = written
	file.State = domain.DatasetStatePresentValid
	file.FetchedAt = &fetchedAt

	log.WithFields(log.Fields{
		"path":       spec.Path,
		"size":       humanBytes(written),
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("dataset downloaded")
	if s.metrics != nil {
		s.metrics.ObserveDownload(ports.OutcomeDownloaded, written, elapsed)
	}
	return file, nil
}

// download streams the remote file into a temp file next to the target and
// renames it into place only once the body was fully written and synced.
func (s *ProvisionerService) download(ctx context.Context, spec domain.DatasetSpec) (int64, error) {
	dir := filepath.Dir(spec.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("%w: create directory %s: %v", domain.ErrDisk, dir, err)
	}
	removeStaleParts(spec.Path)

	remote, err := s.source.Fetch(ctx, spec.RemoteID)
	if err != nil {
		return 0, err
	}
	defer remote.Body.Close()

	tmp, err := os.CreateTemp(dir, partPrefix(spec.Path)+"*")
	if err != nil {
		return 0, fmt.Errorf("%w: create temp file: %v", domain.ErrDisk, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	total := spec.ExpectedSize
	if remote.Size > 0 {
		total = remote.Size
	}
	pw := newProgressWriter(tmp, total)
	n, err := io.Copy(pw, remote.Body)
	if err != nil {
		if pw.err != nil {
			return n, fmt.Errorf("%w: write %s: %v", domain.ErrDisk, tmpName, pw.err)
		}
		return n, fmt.Errorf("%w: read body after %s: %v", domain.ErrNetwork, humanBytes(n), err)
	}
	if remote.Size > 0 && n != remote.Size {
		return n, fmt.Errorf("%w: body truncated at %d of %d bytes", domain.ErrNetwork, n, remote.Size)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: remote returned an empty body", domain.ErrRemoteFile)
	}

	if err := tmp.Sync(); err != nil {
		return n, fmt.Errorf("%w: sync %s: %v", domain.ErrDisk, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("%w: close %s: %v", domain.ErrDisk, tmpName, err)
	}
	if err := os.Rename(tmpName, spec.Path); err != nil {
		return n, fmt.Errorf("%w: rename into %s: %v", domain.ErrDisk, spec.Path, err)
	}
	committed = true
	return n, nil
}

func (s *ProvisionerService) observeFailure(err error) {
	if s.metrics != nil {
		s.metrics.ObserveFailure(FailureKind(err))
	}
}

// FailureKind names the provisioning error class of err for logs and metrics.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	case errors.Is(err, domain.ErrRemoteFile):
		return "remote_file"
	case errors.Is(err, domain.ErrConfirmationParse):
		return "confirmation_parse"
	case errors.Is(err, domain.ErrDisk):
		return "disk"
	case errors.Is(err, domain.ErrSchema):
		return "schema"
	default:
		return "unknown"
	}
}

// cachedSize reports whether path is a usable cache hit. Empty files count as
// absent and are removed.
func cachedSize(path string) (int64, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: stat %s: %v", domain.ErrDisk, path, err)
	}
	if !info.Mode().IsRegular() {
		return 0, false, fmt.Errorf("%w: %s is not a regular file", domain.ErrDisk, path)
	}
	if info.Size() == 0 {
		if err := os.Remove(path); err != nil {
			return 0, false, fmt.Errorf("%w: remove empty file %s: %v", domain.ErrDisk, path, err)
		}
		return 0, false, nil
	}
	return info.Size(), true, nil
}

func partPrefix(path string) string {
	return "." + filepath.Base(path) + ".part-"
}

// removeStaleParts deletes temp files left by a previous process that was killed mid-download.
func removeStaleParts(path string) {
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), partPrefix(path)+"*"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err == nil {
			log.WithField("file", m).Debug("removed stale partial download")
		}
	}
}
