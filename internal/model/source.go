package model

import "time"

// Source is one unit of evidence held by the session
type Source struct {
	ID        string    `json:"id"`                   // Random identifier (display/debugging only)
	Origin    Origin    `json:"origin"`               // file or url
	Label     string    `json:"label"`                // File name or page title
	Hint      string    `json:"hint,omitempty"`       // Media type for files, protocol for URLs
	URL       string    `json:"url,omitempty"`        // Fetched URL (url sources only)
	SizeBytes int64     `json:"size_bytes,omitempty"` // Declared size (file sources only)
	Kind      FileKind  `json:"kind,omitempty"`       // Resolved format (file sources only)
	Content   string    `json:"content"`              // Extracted text, set once at creation
	CreatedAt time.Time `json:"created_at"`
}

// Origin tags where a Source came from
type Origin string

const (
	OriginFile Origin = "file"
	OriginURL  Origin = "url"
)

// FileKind is the format of an admitted file, resolved once at validation time
type FileKind int

const (
	KindUnknown FileKind = iota
	KindText
	KindPDF
	KindWord
	KindImage
)

func (k FileKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPDF:
		return "pdf"
	case KindWord:
		return "word"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON/YAML output
func (k FileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// File is a file handle delivered by the input boundary.
// Data may be nil while the file is only being validated.
type File struct {
	Name      string // Base name shown to the user
	Path      string // Local path, if the file came from disk
	MediaType string // Declared media type (may include parameters)
	Size      int64  // Declared size in bytes
	Data      []byte // Raw content
}
