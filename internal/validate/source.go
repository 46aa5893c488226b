package validate

import (
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Validator decides whether a candidate file may be ingested.
// It only looks at metadata and never reads file content.
type Validator struct {
	maxBytes   int64
	types      map[string]bool
	extensions map[string]bool
}

// NewValidator creates a validator from the extract configuration
func NewValidator(cfg model.ExtractConfig) *Validator {
	maxBytes := cfg.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = model.DefaultMaxFileBytes
	}

	allowedTypes := cfg.AllowedTypes
	if len(allowedTypes) == 0 {
		allowedTypes = model.DefaultAllowedTypes()
	}
	allowedExts := cfg.AllowedExtensions
	if len(allowedExts) == 0 {
		allowedExts = model.DefaultAllowedExtensions()
	}

	v := &Validator{
		maxBytes:   maxBytes,
		types:      make(map[string]bool, len(allowedTypes)),
		extensions: make(map[string]bool, len(allowedExts)),
	}
	for _, t := range allowedTypes {
		v.types[strings.ToLower(t)] = true
	}
	for _, ext := range allowedExts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		v.extensions[ext] = true
	}

	return v
}

// MaxBytes returns the upload size limit
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// Validate checks size and admissibility and resolves the file kind.
// Either the declared media type or the extension is enough to admit a file.
func (v *Validator) Validate(f model.File) (model.FileKind, error) {
	if f.Size > v.maxBytes {
		return model.KindUnknown, &model.ValidationError{Name: f.Name, Limit: v.maxBytes, Err: model.ErrFileTooLarge}
	}

	mediaType := baseMediaType(f.MediaType)
	ext := strings.ToLower(filepath.Ext(f.Name))

	if !v.types[mediaType] && !v.extensions[ext] {
		return model.KindUnknown, &model.ValidationError{Name: f.Name, Err: model.ErrUnsupportedType}
	}

	return ResolveKind(f.Name, f.MediaType), nil
}

// ResolveKind maps a declared media type to a FileKind, using the
// extension only when the declared type is missing or unrecognised
func ResolveKind(name string, mediaType string) model.FileKind {
	switch mt := baseMediaType(mediaType); {
	case mt == "application/pdf":
		return model.KindPDF
	case mt == "application/msword",
		mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return model.KindWord
	case strings.HasPrefix(mt, "image/"):
		return model.KindImage
	case mt == "text/plain":
		return model.KindText
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return model.KindPDF
	case ".doc", ".docx":
		return model.KindWord
	case ".jpg", ".jpeg", ".png", ".gif":
		return model.KindImage
	case ".txt":
		return model.KindText
	}

	return model.KindUnknown
}

// ValidateURL reports whether raw is an absolute http or https URL.
// Parse failures yield false.
func ValidateURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}

// baseMediaType strips parameters such as charset and lowercases the type
func baseMediaType(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		return mt
	}
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
