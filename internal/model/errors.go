package model

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to one of these so callers can use errors.Is.
var (
	// ErrFileTooLarge indicates a file exceeds the upload size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedType indicates a file is neither an allowed media type nor an allowed extension.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrInvalidURL indicates a URL that is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrFetchFailed indicates the page server answered with a non-2xx status.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrEmptyClaim indicates a claim that is empty after trimming.
	ErrEmptyClaim = errors.New("claim is empty")

	// ErrNoSources indicates verification was requested with no sources.
	ErrNoSources = errors.New("no sources to verify against")

	// ErrJudgeRequestFailed indicates the judge endpoint rejected the request.
	ErrJudgeRequestFailed = errors.New("judge request failed")

	// ErrBackendUnavailable indicates an optional extraction tool is not installed.
	ErrBackendUnavailable = errors.New("extraction backend unavailable")
)

// ValidationError reports why a file was refused
type ValidationError struct {
	Name  string // File name
	Limit int64  // Size limit in bytes (for ErrFileTooLarge)
	Err   error  // ErrFileTooLarge or ErrUnsupportedType
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Err, ErrFileTooLarge) {
		return fmt.Sprintf("%s: %v (limit %d MB)", e.Name, e.Err, e.Limit/(1<<20))
	}
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// FetchError carries the status of a failed page fetch
type FetchError struct {
	URL        string
	StatusCode int
	Status     string // Status text, e.g. "Not Found"
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %d %s", e.StatusCode, e.Status)
}

func (e *FetchError) Unwrap() error {
	return ErrFetchFailed
}

// JudgeError carries the provider's error message, or the status code when there is none
type JudgeError struct {
	StatusCode int
	Message    string
}

func (e *JudgeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("judge request failed: %s", e.Message)
	}
	return fmt.Sprintf("judge request failed: status %d", e.StatusCode)
}

func (e *JudgeError) Unwrap() error {
	return ErrJudgeRequestFailed
}
