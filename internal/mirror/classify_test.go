package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		contentType string
		expected    Category
	}{
		// Assets by extension
		{
			name:     "javascript file",
			file:     "main.js",
			expected: CategoryAsset,
		},
		{
			name:     "nested texture",
			file:     "textures/grass.png",
			expected: CategoryAsset,
		},
		{
			name:     "wasm module",
			file:     "engine/physics.wasm",
			expected: CategoryAsset,
		},
		{
			name:     "source map",
			file:     "main.js.map",
			expected: CategoryAsset,
		},
		{
			name:        "extension wins over content type",
			file:        "bundle.css",
			contentType: "text/html",
			expected:    CategoryAsset,
		},

		// Pages
		{
			name:     "index page",
			file:     "index.html",
			expected: CategoryPage,
		},
		{
			name:        "extensionless page by content type",
			file:        "about",
			contentType: "text/html; charset=utf-8",
			expected:    CategoryPage,
		},

		// Content-type driven
		{
			name:        "json endpoint",
			file:        "leaderboard",
			contentType: "application/json",
			expected:    CategoryAPI,
		},
		{
			name:        "extensionless image",
			file:        "cdn/e4f1a9",
			contentType: "image/webp",
			expected:    CategoryAsset,
		},
		{
			name:        "octet stream blob",
			file:        "blobs/level1",
			contentType: "application/octet-stream",
			expected:    CategoryAsset,
		},
		{
			name:        "csv export",
			file:        "export/times",
			contentType: "text/csv",
			expected:    CategoryData,
		},

		// Path pattern fallbacks
		{
			name:     "api path with no content type",
			file:     "api/tracks",
			expected: CategoryAPI,
		},
		{
			name:     "versioned api path",
			file:     "v2/auth/session",
			expected: CategoryAPI,
		},
		{
			name:     "static dir with unknown extension",
			file:     "static/media/e4f1a9",
			expected: CategoryAsset,
		},
		{
			name:     "chunked bundle dir",
			file:     "chunks/14.bin",
			expected: CategoryAsset,
		},

		// Fallback
		{
			name:     "no hints",
			file:     "robots",
			expected: CategoryOther,
		},
		{
			name:        "plain text",
			file:        "notes",
			contentType: "text/plain",
			expected:    CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.file, tt.contentType))
		})
	}
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"application/json", "application/json"},
		{"application/json; charset=utf-8", "application/json"},
		{"TEXT/HTML", "text/html"},
		{"garbage;;;", "garbage;;;"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseMediaType(tt.input))
		})
	}
}
