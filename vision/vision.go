// Package vision sends page-strip images to a text producer and returns
// the transcription. The primary producer is a vision-capable language
// model reached through langchaingo; a local Tesseract producer is
// available behind the "ocr" build tag as an offline alternative.
//
// Producers do not retry: a failed or slow call is the caller's concern,
// which keeps the segmentation and reconciliation pipeline pure and
// testable independent of network behavior.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultPrompt asks the model for a plain transcription of the page.
const DefaultPrompt = "Extract all the text from this document page. " +
	"Maintain the original formatting and structure as much as possible. " +
	"Only return the extracted text, no additional commentary."

// DefaultModel is the vision model used when none is configured.
const DefaultModel = "qwen2.5vl:7b"

// DefaultOllamaHost is the server URL used for the ollama provider when
// none is configured.
const DefaultOllamaHost = "http://127.0.0.1:11434"

// Producer transcribes a single strip image to text. Implementations may
// be slow or unreliable; retry policy belongs to the caller.
type Producer interface {
	Transcribe(ctx context.Context, img image.Image) (string, error)
}

// Config holds settings for the LLM producer.
type Config struct {
	// Provider selects the backend: "ollama" (default), "openai" or
	// "anthropic". API keys for the hosted providers come from the
	// environment (OPENAI_API_KEY, ANTHROPIC_API_KEY).
	Provider string

	// Model names the vision model. Defaults to DefaultModel.
	Model string

	// ServerURL is the model server address, used by the ollama provider.
	ServerURL string

	// Prompt overrides the transcription instruction sent with each image.
	Prompt string
}

// LLM is a Producer backed by a vision-capable chat model.
type LLM struct {
	model    llms.Model
	prompt   string
	provider string
}

// NewLLM creates an LLM producer for the configured provider.
func NewLLM(cfg Config) (*LLM, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = "ollama"
	}

	var model llms.Model
	var err error
	switch provider {
	case "ollama":
		host := cfg.ServerURL
		if host == "" {
			host = DefaultOllamaHost
		}
		model, err = ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(host),
		)
	case "openai":
		model, err = openai.New(openai.WithModel(cfg.Model))
	case "anthropic":
		model, err = anthropic.New(anthropic.WithModel(cfg.Model))
	default:
		return nil, fmt.Errorf("unsupported vision provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", provider, err)
	}

	return &LLM{model: model, prompt: cfg.Prompt, provider: provider}, nil
}

// Transcribe encodes img as PNG and asks the model for a transcription.
// Sampling is pinned down (low temperature, narrow top-k, repetition
// penalty) to keep the output close to the page text rather than creative.
func (l *LLM) Transcribe(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding strip: %w", err)
	}

	// OpenAI-compatible endpoints want data URLs; the rest accept raw bytes.
	var imagePart llms.ContentPart
	if l.provider == "openai" {
		imagePart = llms.ImageURLPart("data:image/png;base64," +
			base64.StdEncoding.EncodeToString(buf.Bytes()))
	} else {
		imagePart = llms.BinaryPart("image/png", buf.Bytes())
	}

	resp, err := l.model.GenerateContent(ctx, []llms.MessageContent{{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{imagePart, llms.TextPart(l.prompt)},
	}},
		llms.WithTemperature(0.1),
		llms.WithTopP(0.8),
		llms.WithTopK(10),
		llms.WithRepetitionPenalty(1.2),
	)
	if err != nil {
		return "", fmt.Errorf("vision model call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision model returned no choices")
	}

	return strings.TrimSpace(StripMarkup(resp.Choices[0].Content)), nil
}
