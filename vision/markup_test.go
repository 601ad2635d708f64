package vision

import (
	"strings"
	"testing"
)

func TestStripMarkup_PlainTextUntouched(t *testing.T) {
	inputs := []string{
		"Just an ordinary transcription.",
		"Multi-line\ntranscription\nwith structure.",
		"Math like a < b stays as written.",
		"",
	}
	for _, in := range inputs {
		if got := StripMarkup(in); got != in {
			t.Errorf("StripMarkup(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestStripMarkup_CodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare fence",
			"```\nPage text here.\n```",
			"Page text here.",
		},
		{
			"language tag",
			"```markdown\n# Heading\n\nBody text.\n```",
			"# Heading\n\nBody text.",
		},
		{
			"unterminated fence left alone",
			"```markdown\nPage text here.",
			"```markdown\nPage text here.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripMarkup_HTML(t *testing.T) {
	in := "<div><h1>Title</h1><p>First paragraph.</p><p>Second paragraph.</p></div>"
	got := StripMarkup(in)

	for _, want := range []string{"Title", "First paragraph.", "Second paragraph."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<") {
		t.Errorf("output still contains markup:\n%s", got)
	}
	if !strings.Contains(got, "Title\n") {
		t.Errorf("block elements should end lines:\n%s", got)
	}
}

func TestStripMarkup_FencedHTML(t *testing.T) {
	in := "```html\n<p>Hello from the model.</p>\n```"
	got := StripMarkup(in)
	if got != "Hello from the model." {
		t.Errorf("StripMarkup = %q, want %q", got, "Hello from the model.")
	}
}

func TestStripMarkup_LineBreaks(t *testing.T) {
	in := "<p>line one<br>line two</p>"
	got := StripMarkup(in)
	if got != "line one\nline two" {
		t.Errorf("StripMarkup = %q, want %q", got, "line one\nline two")
	}
}
