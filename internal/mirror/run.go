package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/usestring/harmirror/internal/manifest"
)

// RunOptions describes one mirror run.
type RunOptions struct {
	Version      string
	BaseURL      string
	ManifestPath string
	DestDir      string
}

// Run loads the version's cleaned capture, plans it against the
// destination and downloads everything. On full success the report is
// written next to the mirror directory; a partial run returns the
// in-memory report together with a DOWNLOAD_FAILED error so callers
// can still summarize what happened.
func (f *Fetcher) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	start := time.Now()

	if _, err := os.Stat(opts.ManifestPath); err != nil {
		return nil, ErrManifestNotFound(opts.Version, opts.ManifestPath)
	}

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	tasks, err := m.Plan(opts.BaseURL, opts.DestDir)
	if err != nil {
		return nil, err
	}

	slog.Info("starting mirror run",
		slog.String("version", opts.Version),
		slog.Int("files", len(tasks)),
		slog.Int("workers", f.workers),
	)

	results, err := f.Fetch(ctx, tasks)
	if err != nil {
		return nil, err
	}

	report := NewReport(opts.Version, start, results)

	if report.Stats.Failed > 0 {
		return report, ErrDownloadFailed(report.Stats.Failed, report.Stats.Total)
	}

	if err := WriteReport(ReportPath(opts.DestDir), report); err != nil {
		return report, err
	}

	slog.Info("mirror run completed",
		slog.String("version", opts.Version),
		slog.String("run_id", report.RunID),
		slog.Int("files", report.Stats.Total),
		slog.Int64("bytes", report.Stats.Bytes),
		slog.Int64("duration_ms", report.DurationMs),
	)

	return report, nil
}

// EnsureEmptyDir fails when dir exists and already has entries. A
// missing dir is fine; the first download creates it.
func EnsureEmptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return ErrNonEmptyDir(dir)
	}
	return nil
}
