// Package retention removes local recordings once they are older than the
// configured retention.
package retention

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/logging"
	"github.com/dmitrijs2005/shadowinterview/internal/metrics"
	"github.com/dmitrijs2005/shadowinterview/internal/recorder"
)

const defaultInterval = time.Hour

type Janitor struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	logger    logging.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewJanitor returns a janitor for dir. A zero retention disables it.
func NewJanitor(dir string, retention time.Duration, l logging.Logger, m *metrics.Metrics) *Janitor {
	interval := defaultInterval
	if retention > 0 && retention/4 < interval {
		interval = max(retention/4, time.Second)
	}
	return &Janitor{
		dir:       dir,
		retention: retention,
		interval:  interval,
		logger:    l.With("module", "retention"),
		metrics:   m,
		now:       time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	if j.retention <= 0 {
		j.logger.Info(ctx, "Retention disabled")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		if n, err := j.Sweep(ctx); err != nil {
			j.logger.Error(ctx, "retention sweep", "error", err)
		} else if n > 0 {
			j.logger.Info(ctx, "Purged recordings", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep deletes every recording file under dir whose modification time is
// older than the retention and returns how many were removed. Files that do
// not look like recordings are left alone.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.retention)
	removed := 0

	err := filepath.WalkDir(j.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == j.dir {
				return filepath.SkipDir
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !recorder.IsRecordingFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}

		if err := os.Remove(path); err != nil {
			j.logger.Warn(ctx, "remove expired recording", "path", path, "error", err)
			return nil
		}
		removed++
		j.metrics.RecordingsPurged.Inc()
		return nil
	})

	return removed, err
}
