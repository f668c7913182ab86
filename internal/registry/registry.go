// Package registry tracks the app versions available for mirroring
// and where their cleaned captures live.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLatest is the version "latest" resolves to when the registry
// file does not say otherwise.
const DefaultLatest = "0.5.2"

// Entry describes one version. Empty fields fall back to the
// convention-based defaults.
type Entry struct {
	BaseURL string `yaml:"base_url"`
	Har     string `yaml:"har"`
}

// Registry is the parsed versions file.
type Registry struct {
	Latest   string           `yaml:"latest"`
	Versions map[string]Entry `yaml:"versions"`
}

// Default returns the built-in registry used when no versions file
// exists.
func Default() *Registry {
	return &Registry{Latest: DefaultLatest}
}

// Load reads a versions file. A missing file yields the built-in
// defaults; a malformed one is an error.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if r.Latest == "" {
		r.Latest = DefaultLatest
	}
	return &r, nil
}

// Resolve maps "latest" to the registry's latest version. Any other
// version string passes through; whether a capture exists for it is
// checked at fetch time.
func (r *Registry) Resolve(version string) string {
	if version == "latest" {
		return r.Latest
	}
	return version
}

// BaseURL returns the download prefix for version: the entry's
// base_url when set, otherwise prefix with the version appended as a
// path segment.
func (r *Registry) BaseURL(version, prefix string) string {
	if e, ok := r.Versions[version]; ok && e.BaseURL != "" {
		return e.BaseURL
	}
	return strings.TrimSuffix(prefix, "/") + "/" + version + "/"
}

// ManifestPath returns where the cleaned capture for version lives:
// the entry's har when set, otherwise <harDir>/<version>.har.
func (r *Registry) ManifestPath(version, harDir string) string {
	if e, ok := r.Versions[version]; ok && e.Har != "" {
		return e.Har
	}
	return filepath.Join(harDir, version+".har")
}

// List returns the known versions in sorted order. The latest version
// is always included.
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.Versions)+1)
	seen := make(map[string]bool, len(r.Versions)+1)
	for v := range r.Versions {
		out = append(out, v)
		seen[v] = true
	}
	if r.Latest != "" && !seen[r.Latest] {
		out = append(out, r.Latest)
	}
	sort.Strings(out)
	return out
}
