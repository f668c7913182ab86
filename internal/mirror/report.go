package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats aggregates a run's outcomes.
type Stats struct {
	Total     int   `json:"total"`
	Completed int   `json:"completed"`
	Failed    int   `json:"failed"`
	Bytes     int64 `json:"bytes"`
}

// Result records the outcome of one task.
type Result struct {
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	Status     int      `json:"status,omitempty"`
	Bytes      int64    `json:"bytes"`
	Category   Category `json:"category,omitempty"`
	Attempts   int      `json:"attempts"`
	DurationMs int64    `json:"duration_ms"`
	Error      string   `json:"error,omitempty"`
}

// Report is the durable record of a mirror run. It is only written
// when every file succeeded, so its presence next to a mirror
// directory marks the mirror as complete.
type Report struct {
	RunID      string    `json:"run_id"`
	Version    string    `json:"version"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Stats      Stats     `json:"stats"`
	Results    []Result  `json:"results"`
}

// NewReport aggregates per-task results into a run report.
func NewReport(version string, startedAt time.Time, results []Result) *Report {
	stats := Stats{Total: len(results)}
	for _, r := range results {
		if r.Error == "" {
			stats.Completed++
			stats.Bytes += r.Bytes
		} else {
			stats.Failed++
		}
	}

	return &Report{
		RunID:      uuid.New().String(),
		Version:    version,
		StartedAt:  startedAt,
		DurationMs: time.Since(startedAt).Milliseconds(),
		Stats:      stats,
		Results:    results,
	}
}

// printer renders summary counts with grouped digits.
var printer = message.NewPrinter(language.English)

// Summary is the one-line human rendering of the run.
func (r *Report) Summary() string {
	return printer.Sprintf("%d files: %d downloaded, %d failed, %d bytes",
		r.Stats.Total, r.Stats.Completed, r.Stats.Failed, r.Stats.Bytes)
}

// ReportPath returns where the run report for a mirror directory lives.
func ReportPath(destDir string) string {
	return filepath.Clean(destDir) + ".report.json"
}

// Completed reports whether destDir already holds a finished mirror.
func Completed(destDir string) bool {
	_, err := os.Stat(ReportPath(destDir))
	return err == nil
}

// WriteReport persists the report at path.
func WriteReport(path string, r *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// LoadReport reads a previously written run report.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}
