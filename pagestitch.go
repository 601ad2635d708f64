// Package pagestitch extracts text from PDF documents with a vision-capable
// language model. Each page is rendered to an image, split into overlapping
// vertical strips so tall pages fit within model input limits, transcribed
// strip by strip, and reconciled: the duplicate text each overlap produces
// is detected and removed before the strips are stitched back into one
// document.
//
// Basic usage:
//
//	text, warnings, err := pagestitch.Open("document.pdf").Text(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagestitch.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := pagestitch.Open("report.pdf").
//	    NumSplits(6).
//	    OverlapRatio(0.15).
//	    Workers(4).
//	    Text(ctx)
//
// For advanced use cases, the segment, reconcile, render and vision
// subpackages are also available directly.
package pagestitch

import "image"

// Open opens a PDF file and returns an Extractor for fluent configuration.
// Nothing is read until a terminal operation like Text is called.
//
// Example:
//
//	text, warnings, err := pagestitch.Open("document.pdf").Text(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
		logger:   nopLogger{},
	}
}

// FromImages creates an Extractor from already-rendered page images,
// bypassing PDF rendering entirely. This is useful when pages come from a
// scanner, a different rasterizer, or a test.
//
// Example:
//
//	text, _, err := pagestitch.FromImages(page1, page2).Text(ctx)
func FromImages(imgs ...image.Image) *Extractor {
	pages := make([]image.Image, len(imgs))
	copy(pages, imgs)
	return &Extractor{
		images:  pages,
		options: defaultOptions(),
		logger:  nopLogger{},
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() and panics if the error
// is non-nil. It discards warnings and returns just the value.
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
