package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"docchat/internal/domain"
	"docchat/internal/logger"
)

// extractPDF pulls plain text out of every page. A page that fails to
// decode is skipped so one bad page does not sink the document; a PDF
// yielding no text at all is an error.
func extractPDF(path string) ([]domain.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	var pages []domain.Page
	for n := 1; n <= total; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warnf("pdf %s: page %d unreadable: %v", path, n, err)
			continue
		}
		pages = append(pages, domain.Page{
			Number: n,
			Text:   text,
			Metadata: map[string]any{
				"source":      path,
				"page":        n,
				"total_pages": total,
			},
		})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no text extracted from pdf")
	}
	return pages, nil
}
