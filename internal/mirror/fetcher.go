// Package mirror downloads the files a cleaned capture lists, laying
// them out as a browsable copy of the captured app version.
package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/harmirror/internal/manifest"
)

// Download defaults, overridable through Options.
const (
	DefaultWorkers    = 8
	DefaultRetries    = 5
	DefaultRetryDelay = 5 * time.Second
	DefaultUserAgent  = "harmirror"
)

// Fetcher downloads the files a plan describes.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	workers    int
	retries    int
	retryDelay time.Duration

	// collapses concurrent tasks that target the same file
	group singleflight.Group
}

// Option is a functional option for configuring the Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent with downloads.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// WithWorkers caps the number of concurrent downloads.
func WithWorkers(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithRetries sets how many attempts each file gets.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.retries = n
		}
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.retryDelay = d
	}
}

// New creates a new download engine.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		userAgent:  DefaultUserAgent,
		workers:    DefaultWorkers,
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads every task in the plan with bounded concurrency.
// A task that fails all its attempts is recorded in its Result rather
// than aborting the rest of the run; Fetch itself only fails when the
// context is canceled. Concurrent tasks sharing a destination are
// collapsed into one download.
func (f *Fetcher) Fetch(ctx context.Context, tasks []manifest.Task) ([]Result, error) {
	results := make([]Result, len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, task := range tasks {
		i, task := i, task // Capture loop variables

		g.Go(func() error {
			v, _, shared := f.group.Do(task.Dest, func() (any, error) {
				return f.download(ctx, task), nil
			})

			res := v.(Result)
			if shared {
				// The outcome came from another task's download;
				// report it under this task's identity.
				res.Name = task.Name
				res.URL = task.URL
			}
			results[i] = res

			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// download fetches one file with retries. The returned Result carries
// the outcome; Error is set when every attempt failed.
func (f *Fetcher) download(ctx context.Context, task manifest.Task) Result {
	start := time.Now()
	res := Result{Name: task.Name, URL: task.URL}

	if err := os.MkdirAll(filepath.Dir(task.Dest), 0755); err != nil {
		res.Error = fmt.Sprintf("creating directory: %v", err)
		res.DurationMs = time.Since(start).Milliseconds()
		return res
	}

	var lastErr error
	for attempt := 1; attempt <= f.retries; attempt++ {
		res.Attempts = attempt

		status, written, contentType, err := f.attempt(ctx, task)
		res.Status = status
		if err == nil {
			res.Bytes = written
			res.Category = Classify(task.Name, contentType)
			res.DurationMs = time.Since(start).Milliseconds()
			slog.Debug("downloaded",
				slog.String("name", task.Name),
				slog.Int("status", status),
				slog.Int64("bytes", written),
				slog.Int("attempt", attempt),
			)
			return res
		}
		lastErr = err

		slog.Warn("download attempt failed",
			slog.String("name", task.Name),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", f.retries),
			slog.String("error", err.Error()),
		)

		if attempt < f.retries {
			select {
			case <-ctx.Done():
			case <-time.After(f.retryDelay):
			}
		}
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
	}

	res.Error = fmt.Sprintf("failed after %d attempts: %v", res.Attempts, lastErr)
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

// attempt performs a single download try, streaming the body to the
// task's destination.
func (f *Fetcher) attempt(ctx context.Context, task manifest.Task) (status int, written int64, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return 0, 0, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, 0, "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, 0, "", fmt.Errorf("http status %s", resp.Status)
	}

	out, err := os.Create(task.Dest)
	if err != nil {
		return resp.StatusCode, 0, "", fmt.Errorf("creating %s: %w", task.Dest, err)
	}
	written, err = io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return resp.StatusCode, written, "", fmt.Errorf("writing %s: %w", task.Dest, err)
	}

	return resp.StatusCode, written, resp.Header.Get("Content-Type"), nil
}
