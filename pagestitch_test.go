package pagestitch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tsawler/pagestitch/segment"
)

// fakeProducer returns canned text keyed on the strip height, so tests can
// hand each page a distinct transcription without a model server.
type fakeProducer struct {
	mu    sync.Mutex
	texts map[int]string
	err   error
	calls int
}

func (f *fakeProducer) Transcribe(_ context.Context, img image.Image) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.texts[img.Bounds().Dy()], nil
}

func page(height int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, 80, height))
}

func TestText_FullPipeline(t *testing.T) {
	producer := &fakeProducer{texts: map[int]string{
		100: "Alpha intro paragraph\nBeta middle section",
		200: "Beta middle section\nGamma closing section",
	}}

	text, warnings, err := FromImages(page(100), page(200)).
		NumSplits(1).
		WithProducer(producer).
		Text(context.Background())
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	want := "Alpha intro paragraph\nBeta middle section\n\nGamma closing section"
	if text != want {
		t.Errorf("Text() = %q, want %q", text, want)
	}
	if producer.calls != 2 {
		t.Errorf("producer called %d times, want 2", producer.calls)
	}
}

func TestUnits_ParallelPreservesOrder(t *testing.T) {
	texts := make(map[int]string)
	var pages []image.Image
	var want []string
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	for i, w := range words {
		h := 100 + i*10
		texts[h] = fmt.Sprintf("%s unit number %d", w, i)
		want = append(want, texts[h])
		pages = append(pages, page(h))
	}

	units, _, err := FromImages(pages...).
		NumSplits(1).
		Workers(4).
		WithProducer(&fakeProducer{texts: texts}).
		Units(context.Background())
	if err != nil {
		t.Fatalf("Units() error: %v", err)
	}
	if len(units) != len(want) {
		t.Fatalf("got %d units, want %d", len(units), len(want))
	}
	for i := range want {
		if units[i] != want[i] {
			t.Errorf("units[%d] = %q, want %q", i, units[i], want[i])
		}
	}
}

func TestConfigChaining_Immutability(t *testing.T) {
	base := FromImages(page(100))
	configured := base.NumSplits(2).OverlapRatio(0.25).Threshold(0.9).Workers(8)

	if base.options.numSplits != DefaultNumSplits {
		t.Errorf("base numSplits changed to %d", base.options.numSplits)
	}
	if base.options.overlapRatio != DefaultOverlapRatio {
		t.Errorf("base overlapRatio changed to %v", base.options.overlapRatio)
	}
	if configured.options.numSplits != 2 || configured.options.overlapRatio != 0.25 {
		t.Errorf("configured options not applied: %+v", configured.options)
	}
	if configured.options.threshold != 0.9 || configured.options.workers != 8 {
		t.Errorf("configured options not applied: %+v", configured.options)
	}
}

func TestText_EmptyStripWarning(t *testing.T) {
	producer := &fakeProducer{texts: map[int]string{
		100: "Some visible text",
		200: "   ", // whitespace only, trimmed to nothing
	}}

	text, warnings, err := FromImages(page(100), page(200)).
		NumSplits(1).
		WithProducer(producer).
		Text(context.Background())
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}

	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if warnings[0].Code != WarnEmptySegment {
		t.Errorf("warning code = %q, want %q", warnings[0].Code, WarnEmptySegment)
	}
	if text != "Some visible text" {
		t.Errorf("Text() = %q, blank unit should be dropped", text)
	}
}

func TestText_ProducerError(t *testing.T) {
	wantErr := errors.New("model unavailable")
	_, _, err := FromImages(page(100)).
		NumSplits(1).
		WithProducer(&fakeProducer{err: wantErr}).
		Text(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want wrapped %v", err, wantErr)
	}
	if !strings.Contains(err.Error(), "strip") {
		t.Errorf("error %q should identify the failing strip", err)
	}
}

func TestNumSplits_Invalid(t *testing.T) {
	_, _, err := FromImages(page(100)).
		NumSplits(0).
		WithProducer(&fakeProducer{}).
		Text(context.Background())
	if !errors.Is(err, segment.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestText_ZeroHeightPage(t *testing.T) {
	_, _, err := FromImages(page(0)).
		NumSplits(1).
		WithProducer(&fakeProducer{}).
		Text(context.Background())
	if !errors.Is(err, segment.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestPages_OutOfRange(t *testing.T) {
	_, _, err := FromImages(page(100), page(200)).
		Pages(5).
		WithProducer(&fakeProducer{}).
		Units(context.Background())
	if err == nil {
		t.Fatal("expected error for out of range page")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error = %q, want out of range message", err)
	}
}

func TestPages_SelectsSubset(t *testing.T) {
	producer := &fakeProducer{texts: map[int]string{
		100: "page one",
		200: "page two",
		300: "page three",
	}}

	units, _, err := FromImages(page(100), page(200), page(300)).
		Pages(1, 3).
		NumSplits(1).
		WithProducer(producer).
		Units(context.Background())
	if err != nil {
		t.Fatalf("Units() error: %v", err)
	}
	if len(units) != 2 || units[0] != "page one" || units[1] != "page three" {
		t.Errorf("units = %v, want pages one and three", units)
	}
}

func TestSave(t *testing.T) {
	producer := &fakeProducer{texts: map[int]string{100: "saved content"}}
	path := filepath.Join(t.TempDir(), "out.md")

	warnings, err := FromImages(page(100)).
		NumSplits(1).
		WithProducer(producer).
		Save(context.Background(), path)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "saved content" {
		t.Errorf("saved %q, want %q", data, "saved content")
	}
}

func TestMustText_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustText("", nil, errors.New("boom"))
}

func TestMustText_ReturnsValue(t *testing.T) {
	got := MustText("value", []Warning{{Code: WarnEmptySegment}}, nil)
	if got != "value" {
		t.Errorf("MustText() = %q, want %q", got, "value")
	}
}

func TestMust_ReturnsValue(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must() = %d, want 42", got)
	}
}
