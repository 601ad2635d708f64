package pagestitch

import (
	"github.com/tsawler/pagestitch/reconcile"
	"github.com/tsawler/pagestitch/render"
)

// Defaults for the extraction pipeline.
const (
	// DefaultNumSplits is the number of vertical strips each page is cut
	// into.
	DefaultNumSplits = 4

	// DefaultOverlapRatio is the overlap between neighbouring strips as a
	// fraction of the base strip height.
	DefaultOverlapRatio = 0.1

	// DefaultThreshold is the similarity ratio above which a strip prefix
	// is treated as duplicated overlap text.
	DefaultThreshold = reconcile.DefaultThreshold
)

// ExtractOptions holds configuration for the extraction pipeline.
type ExtractOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Segmentation
	numSplits    int
	overlapRatio float64
	maxEdge      int

	// Reconciliation
	threshold float64

	// Rendering
	dpi int

	// Transcription
	workers   int
	provider  string
	model     string
	serverURL string
	prompt    string
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:        nil, // nil means all pages
		numSplits:    DefaultNumSplits,
		overlapRatio: DefaultOverlapRatio,
		threshold:    DefaultThreshold,
		dpi:          render.DefaultDPI,
		workers:      1,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
