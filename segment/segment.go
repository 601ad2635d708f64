// Package segment splits a rendered page image into overlapping vertical
// strips. Tall pages rendered at a legible resolution routinely exceed what
// a vision model accepts in one request; splitting works around that, and
// the overlap band between neighbouring strips keeps lines of text from
// being cut at a boundary (the duplicate text it produces is removed later
// by the reconcile package).
package segment

import (
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ErrInvalidInput is returned when a splitter or page dimension is outside
// the supported range.
var ErrInvalidInput = errors.New("segment: invalid input")

// Span is the vertical extent of one strip within its source page.
// YStart is inclusive and YEnd exclusive; spans are ordered top to bottom
// and together cover the full page height.
type Span struct {
	Index  int
	YStart int
	YEnd   int
}

// Height returns the strip height in pixels.
func (s Span) Height() int {
	return s.YEnd - s.YStart
}

// Splitter derives overlapping vertical strips from a page image.
// NumSplits of 1 means no splitting: the whole page is emitted as a single
// strip with no overlap.
type Splitter struct {
	NumSplits    int
	OverlapRatio float64

	// MaxEdge, when positive, caps the longest edge of each emitted strip;
	// larger strips are downscaled preserving aspect ratio. Zero disables
	// the cap. It affects only the emitted raster, never the Plan geometry.
	MaxEdge int
}

// NewSplitter validates the configuration and returns a Splitter.
// NumSplits must be at least 1 and OverlapRatio must be in [0, 1).
func NewSplitter(numSplits int, overlapRatio float64) (*Splitter, error) {
	s := &Splitter{NumSplits: numSplits, OverlapRatio: overlapRatio}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Splitter) validate() error {
	if s.NumSplits < 1 {
		return fmt.Errorf("%w: num splits must be at least 1, got %d", ErrInvalidInput, s.NumSplits)
	}
	if s.OverlapRatio < 0 || s.OverlapRatio >= 1 {
		return fmt.Errorf("%w: overlap ratio must be in [0,1), got %g", ErrInvalidInput, s.OverlapRatio)
	}
	return nil
}

// Plan computes the vertical spans for a page of the given height without
// touching pixels.
//
// The base strip height is height/NumSplits (integer division) and the
// overlap band is floor(base*OverlapRatio) pixels. Every interior boundary
// extends by the overlap band in both directions; the first strip starts at
// 0 and the last strip always ends at the page height, so integer-division
// remainders never leave a gap at the bottom.
func (s *Splitter) Plan(height int) ([]Span, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if height < 1 {
		return nil, fmt.Errorf("%w: page height must be at least 1, got %d", ErrInvalidInput, height)
	}

	if s.NumSplits == 1 {
		return []Span{{Index: 0, YStart: 0, YEnd: height}}, nil
	}

	base := height / s.NumSplits
	overlap := int(float64(base) * s.OverlapRatio)

	spans := make([]Span, 0, s.NumSplits)
	for i := 0; i < s.NumSplits; i++ {
		yStart := i * base
		if i > 0 {
			yStart -= overlap
		}
		if yStart < 0 {
			yStart = 0
		}

		yEnd := (i + 1) * base
		if i < s.NumSplits-1 {
			yEnd += overlap
		}
		if yEnd > height {
			yEnd = height
		}
		if i == s.NumSplits-1 {
			yEnd = height
		}

		spans = append(spans, Span{Index: i, YStart: yStart, YEnd: yEnd})
	}
	return spans, nil
}

// Split crops img into the strips described by Plan, each spanning the full
// page width. With NumSplits of 1 the page image is returned as-is (subject
// only to the MaxEdge cap). Strips are returned top to bottom.
func (s *Splitter) Split(img image.Image) ([]image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}

	// Plan validates the configuration and the page height on every path,
	// including the single-strip case.
	bounds := img.Bounds()
	spans, err := s.Plan(bounds.Dy())
	if err != nil {
		return nil, err
	}

	if s.NumSplits == 1 {
		return []image.Image{s.capEdge(img)}, nil
	}

	strips := make([]image.Image, 0, len(spans))
	for _, sp := range spans {
		src := image.Rect(bounds.Min.X, bounds.Min.Y+sp.YStart, bounds.Max.X, bounds.Min.Y+sp.YEnd)
		crop := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
		xdraw.Copy(crop, image.Point{}, img, src, xdraw.Src, nil)
		strips = append(strips, s.capEdge(crop))
	}
	return strips, nil
}

// capEdge downscales img so its longest edge does not exceed MaxEdge.
func (s *Splitter) capEdge(img image.Image) image.Image {
	if s.MaxEdge <= 0 {
		return img
	}
	b := img.Bounds()
	longest := b.Dx()
	if b.Dy() > longest {
		longest = b.Dy()
	}
	if longest <= s.MaxEdge {
		return img
	}

	scale := float64(s.MaxEdge) / float64(longest)
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
