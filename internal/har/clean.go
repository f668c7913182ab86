package har

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

const faviconName = "favicon.ico"

// Clean reduces a parsed capture to the URLs of its GET requests,
// preserving entry order. An entry missing its request or method
// aborts the pass; a surviving entry missing its url does too. The
// returned slice is never nil, so an empty result encodes as [].
//
// The favicon filter compares the method string's final /-segment, not
// the URL path.
// TODO: point the favicon check at the URL path once downstream
// consumers of the cleaned files confirm they can take the change.
func Clean(doc *Document) ([]string, error) {
	entries := doc.Entries()
	urls := make([]string, 0, len(entries))
	for i, entry := range entries {
		if entry.Request == nil {
			return nil, &MissingFieldError{Index: i, Field: "request"}
		}
		if entry.Request.Method == nil {
			return nil, &MissingFieldError{Index: i, Field: "method"}
		}
		method := *entry.Request.Method
		if method != http.MethodGet {
			continue
		}
		if lastSegment(method) == faviconName {
			continue
		}
		if entry.Request.URL == nil {
			return nil, &MissingFieldError{Index: i, Field: "url"}
		}
		urls = append(urls, *entry.Request.URL)
	}
	return urls, nil
}

// CleanFile runs the cleaning pass on the file at path and overwrites
// it in place with a JSON array of the surviving URLs. The write
// truncates without a rename step, so a failed write can leave the
// file partially written. Returns the surviving URLs.
func CleanFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	urls, err := Clean(doc)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(urls)
	if err != nil {
		return nil, fmt.Errorf("encoding url list: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return urls, nil
}

// lastSegment returns the text after the final "/", or s unchanged
// when it contains none.
func lastSegment(s string) string {
	return s[strings.LastIndex(s, "/")+1:]
}
