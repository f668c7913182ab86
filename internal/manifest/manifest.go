// Package manifest loads cleaned capture files and turns their URL
// lists into download plans.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manifest is the ordered URL list produced by the cleaning pass.
type Manifest []string

// Task is one file to download: the source URL, the destination on
// disk and the mirror-relative name used in logs and reports.
type Task struct {
	URL  string
	Dest string
	Name string
}

// PrefixError reports a manifest URL that does not live under the
// mirror's base URL.
type PrefixError struct {
	URL    string
	Prefix string
}

func (e *PrefixError) Error() string {
	return fmt.Sprintf("url %s does not start with prefix %s", e.URL, e.Prefix)
}

// Load reads a cleaned capture file: a JSON array of URL strings.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// Plan maps the manifest's URLs onto files under destDir. Every URL
// must live under baseURL; the remainder after the prefix becomes the
// relative file path, index.html when empty. Query strings and
// fragments are dropped from the on-disk path. Captures often record
// the same asset more than once, so plans can carry tasks with equal
// destinations; the fetch layer collapses those.
func (m Manifest) Plan(baseURL, destDir string) ([]Task, error) {
	prefix := strings.TrimSuffix(baseURL, "/") + "/"
	tasks := make([]Task, 0, len(m))

	for _, u := range m {
		rel, ok := strings.CutPrefix(u, prefix)
		if !ok {
			return nil, &PrefixError{URL: u, Prefix: prefix}
		}
		if i := strings.IndexAny(rel, "?#"); i >= 0 {
			rel = rel[:i]
		}
		if rel == "" {
			rel = "index.html"
		}
		if escapes(rel) {
			return nil, fmt.Errorf("unsafe file path in url %s", u)
		}

		tasks = append(tasks, Task{
			URL:  u,
			Dest: filepath.Join(destDir, filepath.FromSlash(rel)),
			Name: rel,
		})
	}

	return tasks, nil
}

// escapes reports whether rel climbs out of the destination directory.
func escapes(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
