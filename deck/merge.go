package deck

import (
	"bytes"
	"errors"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrPageCount is returned when a merged deck does not have PageCount pages
var ErrPageCount = errors.New("unexpected page count")

// PDFMerger merges PDF pages with pdfcpu
type PDFMerger struct {
	conf *model.Configuration
}

// NewPDFMerger creates a merger that does not read or write a pdfcpu config dir
func NewPDFMerger() *PDFMerger {
	// Keep pdfcpu from creating a config directory under the user's home.
	model.ConfigPath = "disable"
	return &PDFMerger{conf: model.NewDefaultConfiguration()}
}

// Merge concatenates single-page PDFs in order
func (m *PDFMerger) Merge(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New("no pages to merge")
	}
	readers := make([]io.ReadSeeker, len(pages))
	for i, p := range pages {
		readers[i] = bytes.NewReader(p)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, m.conf); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PageCount reads the number of pages in doc
func (m *PDFMerger) PageCount(doc []byte) (int, error) {
	return api.PageCount(bytes.NewReader(doc), m.conf)
}
