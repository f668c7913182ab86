package mirror

import "fmt"

// Error codes for mirror runs.
const (
	ErrCodeManifestNotFound = "MANIFEST_NOT_FOUND"
	ErrCodeDownloadFailed   = "DOWNLOAD_FAILED"
	ErrCodeNonEmptyDir      = "NON_EMPTY_DIR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// ErrManifestNotFound reports a version with no cleaned capture on disk.
func ErrManifestNotFound(version, path string) error {
	return &CodedError{
		Code:    ErrCodeManifestNotFound,
		Message: fmt.Sprintf("no capture for version %s at %s", version, path),
	}
}

// ErrNonEmptyDir refuses a destination that already has content.
func ErrNonEmptyDir(dir string) error {
	return &CodedError{
		Code:    ErrCodeNonEmptyDir,
		Message: fmt.Sprintf("destination %s is not empty", dir),
	}
}

// ErrDownloadFailed reports how much of a run failed.
func ErrDownloadFailed(failed, total int) error {
	return &CodedError{
		Code:    ErrCodeDownloadFailed,
		Message: fmt.Sprintf("%d out of %d files failed to download", failed, total),
	}
}
