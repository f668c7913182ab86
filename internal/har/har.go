// Package har models HTTP Archive captures and the cleaning pass that
// reduces them to their GET request URLs.
package har

import (
	"encoding/json"
	"errors"
)

// Document is the top level of a HAR capture. Only the fields the
// cleaning pass reads are modeled; extra fields are ignored and not
// preserved.
type Document struct {
	Log *Log `json:"log"`
}

// Log holds the recorded entries in capture order.
type Log struct {
	Entries []Entry `json:"entries"`
}

// Entry is one recorded HTTP transaction.
type Entry struct {
	Request *Request `json:"request"`
}

// Request carries the method and URL of a recorded request. Pointer
// fields distinguish absent keys from empty strings.
type Request struct {
	Method *string `json:"method"`
	URL    *string `json:"url"`
}

// Parse decodes a HAR document. Invalid JSON yields a ParseError.
// Valid JSON that does not match the expected shape decodes
// best-effort: mismatched fields stay unset, so a document with no
// usable log reads as zero entries.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, &ParseError{Cause: err}
		}
	}
	return &doc, nil
}

// Entries returns the capture's entry sequence. Missing log or entries
// fields read as an empty sequence.
func (d *Document) Entries() []Entry {
	if d == nil || d.Log == nil {
		return nil
	}
	return d.Log.Entries
}
