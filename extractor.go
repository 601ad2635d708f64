package pagestitch

import (
	"context"
	"fmt"
	"image"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pagestitch/reconcile"
	"github.com/tsawler/pagestitch/render"
	"github.com/tsawler/pagestitch/segment"
	"github.com/tsawler/pagestitch/vision"
)

// Extractor provides a fluent interface for extracting text from PDF
// documents via a vision model. Each configuration method returns a new
// Extractor instance, making it safe for concurrent use and allowing
// method chaining.
type Extractor struct {
	// Source (exactly one is used)
	filename string
	images   []image.Image

	// Configuration
	options  ExtractOptions
	producer vision.Producer
	logger   Logger

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	mu       sync.Mutex
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		images:   e.images,
		options:  e.options.clone(),
		producer: e.producer,
		logger:   e.logger,
		err:      e.err,
		warnings: append([]Warning(nil), e.warnings...),
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	text, _, err := pagestitch.Open("doc.pdf").Pages(1, 3, 5).Text(ctx)
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// NumSplits sets how many overlapping vertical strips each page is cut
// into before transcription. 1 disables splitting.
func (e *Extractor) NumSplits(n int) *Extractor {
	newExt := e.clone()
	newExt.options.numSplits = n
	return newExt
}

// OverlapRatio sets the overlap between neighbouring strips as a fraction
// of the base strip height, in [0, 1).
func (e *Extractor) OverlapRatio(r float64) *Extractor {
	newExt := e.clone()
	newExt.options.overlapRatio = r
	return newExt
}

// Threshold sets the similarity ratio above which a strip prefix is
// treated as duplicated overlap text and removed.
func (e *Extractor) Threshold(t float64) *Extractor {
	newExt := e.clone()
	newExt.options.threshold = t
	return newExt
}

// DPI sets the page rasterization resolution.
func (e *Extractor) DPI(dpi int) *Extractor {
	newExt := e.clone()
	newExt.options.dpi = dpi
	return newExt
}

// MaxEdge caps the longest edge of each strip in pixels; larger strips are
// downscaled before transcription. Zero disables the cap.
func (e *Extractor) MaxEdge(px int) *Extractor {
	newExt := e.clone()
	newExt.options.maxEdge = px
	return newExt
}

// Workers sets how many strips are transcribed concurrently. The default
// is 1 (strictly sequential). Reconciliation always runs after every strip
// has been transcribed, in original strip order, regardless of this
// setting.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.workers = n
	return newExt
}

// Provider selects the vision model backend: "ollama" (default), "openai"
// or "anthropic".
func (e *Extractor) Provider(name string) *Extractor {
	newExt := e.clone()
	newExt.options.provider = name
	return newExt
}

// Model names the vision model to use.
func (e *Extractor) Model(name string) *Extractor {
	newExt := e.clone()
	newExt.options.model = name
	return newExt
}

// ServerURL sets the model server address (ollama provider).
func (e *Extractor) ServerURL(url string) *Extractor {
	newExt := e.clone()
	newExt.options.serverURL = url
	return newExt
}

// Prompt overrides the transcription instruction sent with each strip.
func (e *Extractor) Prompt(p string) *Extractor {
	newExt := e.clone()
	newExt.options.prompt = p
	return newExt
}

// WithProducer injects a transcription producer, replacing the default
// vision-model client. Useful for the Tesseract producer or for tests.
func (e *Extractor) WithProducer(p vision.Producer) *Extractor {
	newExt := e.clone()
	newExt.producer = p
	return newExt
}

// WithLogger injects a progress logger. A *logrus.Logger satisfies the
// interface.
func (e *Extractor) WithLogger(l Logger) *Extractor {
	newExt := e.clone()
	if l != nil {
		newExt.logger = l
	}
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Text runs the full pipeline and returns the reconciled document text.
//
// Returns the extracted text, any warnings encountered during processing,
// and an error if extraction failed. Warnings indicate non-fatal issues
// (e.g., a strip that produced no text) where extraction succeeded but
// results may be imperfect.
//
// Example:
//
//	text, warnings, err := pagestitch.Open("document.pdf").Text(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagestitch.FormatWarnings(warnings))
//	}
func (e *Extractor) Text(ctx context.Context) (string, []Warning, error) {
	units, warnings, err := e.Units(ctx)
	if err != nil {
		return "", warnings, err
	}
	return reconcile.Join(units), warnings, nil
}

// Units runs the pipeline up to and including reconciliation and returns
// the cleaned per-strip text units in original strip order, before they
// are joined into one document.
func (e *Extractor) Units(ctx context.Context) ([]string, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	pages, err := e.collectPages()
	if err != nil {
		return nil, nil, err
	}

	units, err := e.transcribe(ctx, pages)
	if err != nil {
		return nil, e.snapshotWarnings(), err
	}

	rec := reconcile.New(e.options.threshold)
	return rec.Clean(units), e.snapshotWarnings(), nil
}

// Save runs the full pipeline and writes the document text to path.
func (e *Extractor) Save(ctx context.Context, path string) ([]Warning, error) {
	text, warnings, err := e.Text(ctx)
	if err != nil {
		return warnings, err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return warnings, fmt.Errorf("writing output: %w", err)
	}
	return warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// collectPages renders (or selects) the source pages in document order.
func (e *Extractor) collectPages() ([]image.Image, error) {
	if e.images != nil {
		indices, err := resolvePages(e.options.pages, len(e.images))
		if err != nil {
			return nil, err
		}
		pages := make([]image.Image, 0, len(indices))
		for _, i := range indices {
			pages = append(pages, e.images[i])
		}
		return pages, nil
	}

	if e.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}

	doc, err := render.Open(e.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()
	doc.SetDPI(e.options.dpi)

	indices, err := resolvePages(e.options.pages, doc.PageCount())
	if err != nil {
		return nil, err
	}

	pages := make([]image.Image, 0, len(indices))
	for _, i := range indices {
		e.logger.Infof("rendering page %d/%d", i+1, doc.PageCount())
		img, err := doc.Render(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

// transcribe splits every page into strips, transcribes each strip, and
// returns the raw units in original strip order. Transcription calls fan
// out across a bounded worker group; results land in a slice indexed by
// global strip order, so the unit sequence the reconciler sees matches a
// sequential run.
func (e *Extractor) transcribe(ctx context.Context, pages []image.Image) ([]string, error) {
	splitter := &segment.Splitter{
		NumSplits:    e.options.numSplits,
		OverlapRatio: e.options.overlapRatio,
		MaxEdge:      e.options.maxEdge,
	}

	var strips []image.Image
	for i, page := range pages {
		segs, err := splitter.Split(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		strips = append(strips, segs...)
	}

	producer := e.producer
	if producer == nil {
		p, err := vision.NewLLM(vision.Config{
			Provider:  e.options.provider,
			Model:     e.options.model,
			ServerURL: e.options.serverURL,
			Prompt:    e.options.prompt,
		})
		if err != nil {
			return nil, err
		}
		producer = p
	}

	workers := e.options.workers
	if workers < 1 {
		workers = 1
	}

	units := make([]string, len(strips))
	var produced atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, strip := range strips {
		i, strip := i, strip
		g.Go(func() error {
			e.logger.Infof("transcribing strip %d/%d", i+1, len(strips))
			text, err := producer.Transcribe(gctx, strip)
			if err != nil {
				return fmt.Errorf("strip %d/%d: %w", i+1, len(strips), err)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				e.addWarning(Warning{
					Code:    WarnEmptySegment,
					Message: fmt.Sprintf("strip %d of %d produced no text", i+1, len(strips)),
				})
				e.logger.Warnf("strip %d/%d produced no text", i+1, len(strips))
			}
			units[i] = text
			produced.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// One unit per strip, in strip order. The reconciler depends on this
	// correspondence.
	if int(produced.Load()) != len(strips) {
		return nil, fmt.Errorf("produced %d units for %d strips", produced.Load(), len(strips))
	}
	return units, nil
}

// resolvePages converts 1-indexed page numbers to 0-indexed and validates
// them. If no pages are specified, all pages are returned.
func resolvePages(pages []int, pageCount int) ([]int, error) {
	if len(pages) == 0 {
		indices := make([]int, pageCount)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	seen := make(map[int]bool)
	var indices []int
	for _, p := range pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		zeroIndexed := p - 1
		if !seen[zeroIndexed] {
			seen[zeroIndexed] = true
			indices = append(indices, zeroIndexed)
		}
	}

	sort.Ints(indices)
	return indices, nil
}

func (e *Extractor) addWarning(w Warning) {
	e.mu.Lock()
	e.warnings = append(e.warnings, w)
	e.mu.Unlock()
}

func (e *Extractor) snapshotWarnings() []Warning {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Warning(nil), e.warnings...)
}
