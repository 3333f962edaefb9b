package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
)

// FilePersister stores the snapshot as a single JSON document on disk,
// the server-side equivalent of the original db.json blob.
type FilePersister struct {
	path       string
	maxRetries int
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister(path string, maxRetries int) *FilePersister {
	if maxRetries < 1 {
		maxRetries = 3
	}
	return &FilePersister{path: path, maxRetries: maxRetries}
}

// Load reads the blob. A missing file reports found=false.
func (p *FilePersister) Load(_ context.Context) (domain.Snapshot, bool, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Empty(), false, nil
		}
		return domain.Empty(), false, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Empty(), false, err
	}
	return snap, true, nil
}

// Save rewrites the blob atomically (temp file + rename). Transient
// write errors are retried with exponential backoff a bounded number
// of times before the error is reported to the caller, which logs and
// swallows it.
func (p *FilePersister) Save(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	write := func() error {
		if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
			return err
		}
		tmp := p.path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return err
		}
		return os.Rename(tmp, p.path)
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(50*time.Millisecond),
		), uint64(p.maxRetries-1)),
		ctx,
	)
	return backoff.Retry(write, bo)
}
