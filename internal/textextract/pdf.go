package textextract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"intakedocs/internal/domain"
)

// PDFExtractor implements port.TextExtractor for PDF documents.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText converts raw PDF bytes into plain text. Scanned PDFs with no
// text layer return an empty string, not an error; corrupt or non-PDF
// input maps to domain.ErrUnsupportedDocument.
func (e *PDFExtractor) ExtractText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedDocument, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedDocument, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedDocument, err)
	}
	return buf.String(), nil
}
