package fetch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF concatenates per-page text with form-feed separators.
// Only text extraction from well-formed documents is attempted; there
// is no OCR fallback.
func ExtractPDF(body []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}

	var (
		b     strings.Builder
		pages = r.NumPage()
		got   bool
	)
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single corrupt page doesn't fail the document.
			continue
		}
		if strings.TrimSpace(text) != "" {
			got = true
		}
		b.WriteString(text)
		if i < pages {
			b.WriteByte('\f')
		}
	}
	if !got {
		return "", fmt.Errorf("no extractable text in %d pages", pages)
	}
	return b.String(), nil
}
