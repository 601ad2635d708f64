package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/pagestitch"
	"github.com/tsawler/pagestitch/render"
	"github.com/tsawler/pagestitch/vision"
)

type options struct {
	pdfPath      string
	outPath      string
	provider     string
	model        string
	serverURL    string
	prompt       string
	numSplits    int
	overlapRatio float64
	threshold    float64
	dpi          int
	workers      int
	maxEdge      int
	verbose      bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagestitch: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "pagestitch: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: pagestitch [flags] <pdf>\n")
		flag.PrintDefaults()
	}

	// .env values feed the flag defaults below.
	_ = godotenv.Load()

	flag.StringVar(&opts.outPath, "o", "", "Output file (default: <pdf>_extracted.md)")
	flag.StringVar(&opts.provider, "provider", "ollama", "Vision model provider: ollama, openai or anthropic")
	flag.StringVar(&opts.model, "model", "", "Vision model name (default: "+vision.DefaultModel+")")
	flag.StringVar(&opts.serverURL, "server", os.Getenv("OLLAMA_HOST"), "Model server URL (ollama)")
	flag.StringVar(&opts.prompt, "prompt", "", "Override the transcription prompt")
	flag.IntVar(&opts.numSplits, "num-splits", pagestitch.DefaultNumSplits, "Vertical strips per page (1 disables splitting)")
	flag.Float64Var(&opts.overlapRatio, "overlap-ratio", pagestitch.DefaultOverlapRatio, "Overlap between strips as a fraction of strip height")
	flag.Float64Var(&opts.threshold, "threshold", pagestitch.DefaultThreshold, "Similarity threshold for duplicate removal")
	flag.IntVar(&opts.dpi, "dpi", render.DefaultDPI, "Page rasterization DPI")
	flag.IntVar(&opts.workers, "workers", 1, "Concurrent transcription workers")
	flag.IntVar(&opts.maxEdge, "max-edge", 0, "Cap the longest strip edge in pixels (0 = no cap)")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing pdf path")
	}
	opts.pdfPath = flag.Arg(0)
	if opts.outPath == "" {
		opts.outPath = strings.TrimSuffix(opts.pdfPath, filepath.Ext(opts.pdfPath)) + "_extracted.md"
	}
	return opts, nil
}

func run(opts options) error {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	runID := uuid.NewString()
	log.WithFields(logrus.Fields{
		"run":      runID,
		"input":    opts.pdfPath,
		"output":   opts.outPath,
		"provider": opts.provider,
	}).Info("starting extraction")

	ext := pagestitch.Open(opts.pdfPath).
		NumSplits(opts.numSplits).
		OverlapRatio(opts.overlapRatio).
		Threshold(opts.threshold).
		DPI(opts.dpi).
		Workers(opts.workers).
		MaxEdge(opts.maxEdge).
		Provider(opts.provider).
		WithLogger(log)
	if opts.model != "" {
		ext = ext.Model(opts.model)
	}
	if opts.serverURL != "" {
		ext = ext.ServerURL(opts.serverURL)
	}
	if opts.prompt != "" {
		ext = ext.Prompt(opts.prompt)
	}

	warnings, err := ext.Save(context.Background(), opts.outPath)
	for _, w := range warnings {
		log.WithField("code", w.Code).Warn(w.Message)
	}
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"run": runID, "output": opts.outPath}).Info("extraction complete")
	return nil
}
