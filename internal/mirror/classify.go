package mirror

import (
	"mime"
	"path"
	"regexp"
	"strings"
)

// Category labels what kind of file a mirrored URL turned out to be.
type Category string

const (
	CategoryAsset Category = "asset"
	CategoryPage  Category = "page"
	CategoryAPI   Category = "api"
	CategoryData  Category = "data"
	CategoryOther Category = "other"
)

// assetExtensions maps file extensions that indicate static assets.
var assetExtensions = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".css": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".ico": true, ".webp": true, ".avif": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".map": true, // source maps
	".mp4": true, ".webm": true, ".mp3": true, ".ogg": true,
	".wasm": true,
	".pdf":  true,
}

// apiPathPattern matches common API path prefixes.
var apiPathPattern = regexp.MustCompile(`(?i)^(api|graphql|rest|v\d+)(/|$)`)

// Classify determines the category of a mirrored file from its
// mirror-relative path and the Content-Type the server returned.
func Classify(name, contentType string) Category {
	nameLower := strings.ToLower(name)
	ext := path.Ext(nameLower)

	// 1. Extension check (cheapest, most definitive)
	if assetExtensions[ext] {
		return CategoryAsset
	}
	if ext == ".html" || ext == ".htm" {
		return CategoryPage
	}

	// 2. Content-type based classification (for extensionless paths)
	if mediaType := parseMediaType(contentType); mediaType != "" {
		switch {
		case strings.Contains(mediaType, "javascript"),
			strings.Contains(mediaType, "css"),
			strings.Contains(mediaType, "wasm"),
			strings.Contains(mediaType, "octet-stream"),
			strings.HasPrefix(mediaType, "image/"),
			strings.HasPrefix(mediaType, "audio/"),
			strings.HasPrefix(mediaType, "video/"),
			strings.HasPrefix(mediaType, "font/"):
			return CategoryAsset
		case mediaType == "text/html", mediaType == "application/xhtml+xml":
			return CategoryPage
		case strings.Contains(mediaType, "json"), strings.Contains(mediaType, "xml"):
			return CategoryAPI
		case mediaType == "text/csv", mediaType == "application/x-www-form-urlencoded":
			return CategoryData
		}
	}

	// 3. Path pattern fallbacks
	if apiPathPattern.MatchString(nameLower) {
		return CategoryAPI
	}
	if isAssetPath(nameLower) {
		return CategoryAsset
	}

	return CategoryOther
}

// parseMediaType strips parameters (charset, boundary) from a
// Content-Type value. Falls back to a lowercased trim for malformed
// values.
func parseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// isAssetPath checks for common framework static asset path patterns.
func isAssetPath(nameLower string) bool {
	return strings.Contains(nameLower, "static/") ||
		strings.Contains(nameLower, "assets/") ||
		strings.Contains(nameLower, "dist/") ||
		strings.Contains(nameLower, "bundle") ||
		strings.Contains(nameLower, "chunks/")
}
