// Package render rasterizes PDF pages to images using MuPDF via go-fitz.
// Rendering is deterministic: the same document, page and DPI always
// produce the same raster.
package render

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is twice PDF's native 72 dpi, enough resolution for a vision
// model to read body text without ballooning the payload.
const DefaultDPI = 144

// Document is an open PDF ready for page rasterization.
// It is not safe for concurrent use; render pages from a single goroutine.
type Document struct {
	doc *fitz.Document
	dpi int
}

// Open opens the PDF at path. The caller must call Close when done.
func Open(path string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &Document{doc: doc, dpi: DefaultDPI}, nil
}

// FromBytes opens a PDF held in memory. The caller must call Close when done.
func FromBytes(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF from memory: %w", err)
	}
	return &Document{doc: doc, dpi: DefaultDPI}, nil
}

// SetDPI sets the rasterization resolution. Non-positive values are ignored.
func (d *Document) SetDPI(dpi int) {
	if dpi > 0 {
		d.dpi = dpi
	}
}

// DPI returns the current rasterization resolution.
func (d *Document) DPI() int {
	return d.dpi
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// Render rasterizes the page at index (0-based) at the configured DPI.
func (d *Document) Render(index int) (image.Image, error) {
	if index < 0 || index >= d.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (1-%d)", index+1, d.doc.NumPage())
	}
	img, err := d.doc.ImageDPI(index, float64(d.dpi))
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", index+1, err)
	}
	return img, nil
}

// Close releases the underlying MuPDF resources.
// It is safe to call Close multiple times.
func (d *Document) Close() error {
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
