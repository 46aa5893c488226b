package model

import "time"

// Page is the readable content of a fetched web page
type Page struct {
	URL       string    `json:"url"`       // URL as requested
	FinalURL  string    `json:"final_url"` // URL after redirects
	Title     string    `json:"title"`     // Never empty; "Untitled" when the page has none
	Content   string    `json:"content"`   // Main content, or full body text as fallback
	Readable  bool      `json:"readable"`  // Whether the main-content tier produced Content
	FetchMeta FetchMeta `json:"fetch_meta"`
	FetchedAt time.Time `json:"fetched_at"`
}

// FetchMeta contains HTTP metadata from fetching a page
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	FromCache    bool              `json:"from_cache,omitempty"`
}

// DefaultTitle labels pages without a usable title
const DefaultTitle = "Untitled"
