package vision

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// StripMarkup undoes the wrapping some models put around a transcription:
// a surrounding code fence is removed, and if the remainder contains HTML
// element markup the text content is pulled out of the parsed tree. Plain
// text, including text with stray "<" characters, passes through untouched.
func StripMarkup(s string) string {
	s = stripFence(s)

	// Only treat the response as HTML when it has closing tags; a lone
	// "<" in ordinary text (math, code) is not markup.
	if !strings.Contains(s, "</") {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var sb strings.Builder
	flatten(doc, &sb)
	out := blankRuns.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out)
}

// stripFence removes a ``` fence enclosing the whole response, including a
// language tag on the opening line.
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	lines := strings.Split(t, "\n")
	if len(lines) < 2 {
		return s
	}
	last := len(lines) - 1
	if strings.TrimSpace(lines[last]) != "```" {
		return s
	}
	return strings.TrimSpace(strings.Join(lines[1:last], "\n"))
}

func flatten(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			sb.WriteString("\n")
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, sb)
	}

	if n.Type == html.ElementNode && isBlock(n.Data) {
		sb.WriteString("\n")
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6",
		"li", "ul", "ol", "tr", "table", "blockquote", "pre",
		"section", "article", "header", "footer":
		return true
	}
	return false
}
