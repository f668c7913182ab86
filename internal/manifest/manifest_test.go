package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harmirror/internal/har"
)

func TestLoad(t *testing.T) {
	t.Run("url array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "0.5.2.har")
		require.NoError(t, os.WriteFile(path, []byte(`["https://a.com/","https://a.com/x.js"]`), 0644))

		m, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Manifest{"https://a.com/", "https://a.com/x.js"}, m)
	})

	t.Run("empty array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "0.5.2.har")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

		m, err := Load(path)
		require.NoError(t, err)
		assert.Empty(t, m)
	})

	t.Run("not an array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "raw.har")
		require.NoError(t, os.WriteFile(path, []byte(`{"log":{"entries":[]}}`), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.har")
		require.NoError(t, os.WriteFile(path, []byte(`[`), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.har"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

// A cleaned capture must load back as a manifest without changes.
func TestLoadAfterClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.har")
	input := `{"log":{"entries":[` +
		`{"request":{"method":"GET","url":"https://app.example.com/0.5.2/"}},` +
		`{"request":{"method":"POST","url":"https://app.example.com/0.5.2/api"}},` +
		`{"request":{"method":"GET","url":"https://app.example.com/0.5.2/main.js"}}]}}`
	require.NoError(t, os.WriteFile(path, []byte(input), 0644))

	urls, err := har.CleanFile(path)
	require.NoError(t, err)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Manifest(urls), m)
}

func TestPlan(t *testing.T) {
	const base = "https://app.example.com/0.5.2/"

	tests := []struct {
		name     string
		urls     Manifest
		expected []string // expected task names, in order
	}{
		{
			name:     "relative paths",
			urls:     Manifest{base + "main.js", base + "textures/grass.png"},
			expected: []string{"main.js", "textures/grass.png"},
		},
		{
			name:     "root url becomes index.html",
			urls:     Manifest{base},
			expected: []string{"index.html"},
		},
		{
			name:     "query string dropped",
			urls:     Manifest{base + "main.js?v=123"},
			expected: []string{"main.js"},
		},
		{
			name:     "fragment dropped",
			urls:     Manifest{base + "docs/readme.html#top"},
			expected: []string{"docs/readme.html"},
		},
		{
			name:     "query on root",
			urls:     Manifest{base + "?cache=no"},
			expected: []string{"index.html"},
		},
		{
			name:     "duplicate urls planned as recorded",
			urls:     Manifest{base + "main.js", base + "main.js"},
			expected: []string{"main.js", "main.js"},
		},
		{
			name:     "query variants map onto one file",
			urls:     Manifest{base + "main.js?v=1", base + "main.js?v=2"},
			expected: []string{"main.js", "main.js"},
		},
		{
			name:     "order preserved",
			urls:     Manifest{base + "b.js", base + "a.js", base + "c/d.js"},
			expected: []string{"b.js", "a.js", "c/d.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			destDir := t.TempDir()
			tasks, err := tt.urls.Plan(base, destDir)
			require.NoError(t, err)

			names := make([]string, 0, len(tasks))
			for _, task := range tasks {
				names = append(names, task.Name)
				assert.Equal(t, filepath.Join(destDir, filepath.FromSlash(task.Name)), task.Dest)
			}
			assert.Equal(t, tt.expected, names)
		})
	}

	t.Run("base url without trailing slash", func(t *testing.T) {
		tasks, err := Manifest{base + "main.js"}.Plan("https://app.example.com/0.5.2", t.TempDir())
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "main.js", tasks[0].Name)
	})

	t.Run("url outside prefix", func(t *testing.T) {
		_, err := Manifest{"https://elsewhere.com/x.js"}.Plan(base, t.TempDir())

		var prefixErr *PrefixError
		require.ErrorAs(t, err, &prefixErr)
		assert.Equal(t, "https://elsewhere.com/x.js", prefixErr.URL)
	})

	t.Run("escaping path rejected", func(t *testing.T) {
		_, err := Manifest{base + "../../etc/passwd"}.Plan(base, t.TempDir())
		assert.Error(t, err)
	})
}
