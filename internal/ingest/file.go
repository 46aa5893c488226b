// Package ingest reads local inputs into the handles the session consumes.
package ingest

import (
	"bufio"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ppiankov/claimcheck/internal/model"
)

// OpenFile describes the file at path without loading it. The declared media
// type is sniffed from the header, or taken from the extension when sniffing
// is inconclusive.
func OpenFile(path string) (model.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.File{}, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return model.File{}, fmt.Errorf("%s: is a directory", path)
	}

	return model.File{
		Name:      filepath.Base(path),
		Path:      path,
		MediaType: declaredType(path),
		Size:      info.Size(),
	}, nil
}

// Load returns f with its content read from disk. Files that already carry data are returned as is.
func Load(f model.File) (model.File, error) {
	if f.Data != nil || f.Path == "" {
		return f, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return f, fmt.Errorf("read file: %w", err)
	}
	f.Data = data
	return f, nil
}

func declaredType(path string) string {
	byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))

	mtype, err := mimetype.DetectFile(path)
	if err != nil || mtype.Is("application/octet-stream") {
		return byExt
	}

	// A zip container says nothing about the format inside it
	if mtype.Is("application/zip") && byExt != "" {
		return byExt
	}
	return mtype.String()
}

// ReadURLsFromFile reads one URL per line, skipping blank lines and # comments.
// Order and duplicates are preserved.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
