//go:build !ocr

package vision

import (
	"context"
	"errors"
	"image"
)

// ErrOCRNotEnabled is returned when the Tesseract producer is used but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Tesseract is the stub producer used when the "ocr" build tag is not set.
// All operations return ErrOCRNotEnabled.
//
// To enable the real implementation, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed.
type Tesseract struct{}

// NewTesseract returns an error indicating OCR support is not enabled.
func NewTesseract() (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}

// SetLanguage returns ErrOCRNotEnabled.
func (t *Tesseract) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// Transcribe returns ErrOCRNotEnabled.
func (t *Tesseract) Transcribe(ctx context.Context, img image.Image) (string, error) {
	return "", ErrOCRNotEnabled
}

// Close is a no-op for the stub producer.
// It is safe to call on a nil producer.
func (t *Tesseract) Close() error {
	return nil
}
