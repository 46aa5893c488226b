// Package store holds the session's ingested sources.
//
// Sources are kept in two insertion-ordered sub-collections, files and URLs.
// Positional addressing always uses the combined view [files..., urls...].
// A SourceStore has a single owner and is not safe for concurrent use.
package store

import "github.com/ppiankov/claimcheck/internal/model"

// SourceStore is the single mutable collection of sources for a session
type SourceStore struct {
	files []model.Source
	urls  []model.Source
}

// New creates an empty store
func New() *SourceStore {
	return &SourceStore{}
}

// Insert appends a source to the end of its sub-collection
func (s *SourceStore) Insert(src model.Source) {
	if src.Origin == model.OriginURL {
		s.urls = append(s.urls, src)
		return
	}
	s.files = append(s.files, src)
}

// RemoveAt removes the source at a combined index.
// Indices at or past the file count address the URL sub-collection.
// Out-of-range indices leave the store untouched and return false.
func (s *SourceStore) RemoveAt(index int) (model.Source, bool) {
	if index < 0 {
		return model.Source{}, false
	}

	if index < len(s.files) {
		removed := s.files[index]
		s.files = append(s.files[:index:index], s.files[index+1:]...)
		return removed, true
	}

	index -= len(s.files)
	if index < len(s.urls) {
		removed := s.urls[index]
		s.urls = append(s.urls[:index:index], s.urls[index+1:]...)
		return removed, true
	}

	return model.Source{}, false
}

// Snapshot returns the combined view at call time, files first.
// The returned slice is a copy and is never shared with the store.
func (s *SourceStore) Snapshot() []model.Source {
	out := make([]model.Source, 0, len(s.files)+len(s.urls))
	out = append(out, s.files...)
	out = append(out, s.urls...)
	return out
}

// Len returns the total number of sources
func (s *SourceStore) Len() int {
	return len(s.files) + len(s.urls)
}

// Counts returns the file and URL source counts
func (s *SourceStore) Counts() (files int, urls int) {
	return len(s.files), len(s.urls)
}
