// Package extract turns source files into page-by-page text for the
// query engine. PDFs are parsed natively; plain text and markdown pass
// through as a single page.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docchat/internal/domain"
)

// FileExtractor extracts text from local files by extension.
type FileExtractor struct{}

// New creates a file extractor.
func New() *FileExtractor { return &FileExtractor{} }

// Extract reads the file at path and returns its text page by page.
// Unsupported extensions are an error so the caller can report the
// document by name.
func (e *FileExtractor) Extract(path string) (domain.Document, error) {
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		pages, err := extractPDF(path)
		if err != nil {
			return domain.Document{}, err
		}
		return domain.Document{Name: name, Path: path, Pages: pages}, nil
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.Document{}, err
		}
		page := domain.Page{
			Number: 1,
			Text:   string(data),
			Metadata: map[string]any{
				"source":      path,
				"total_pages": 1,
			},
		}
		return domain.Document{Name: name, Path: path, Pages: []domain.Page{page}}, nil
	default:
		return domain.Document{}, fmt.Errorf("unsupported document type: %s", name)
	}
}
