package service

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	separatorRe  = regexp.MustCompile(`\*\s\*\s\*`)
	paragraphRe  = regexp.MustCompile(`(?:\r\n|\r|\n){2,}`)
	lineBreakRe  = regexp.MustCompile(`\r\n|\r|\n`)
	sectionBreak = `<div class="separator">* * *</div>`
)

// FormatPage converts one page of raw text into paragraph markup for the
// view layer. Best effort on malformed input; pure, no failure modes.
func FormatPage(raw string) string {
	// Page payloads arrive with escaped line breaks.
	text := strings.ReplaceAll(raw, `\n`, "\n")
	// Source books use verbatim quotation marks that render poorly.
	text = strings.ReplaceAll(text, `"`, "")
	text = separatorRe.ReplaceAllString(text, sectionBreak)

	paragraphs := paragraphRe.Split(text, -1)

	var b strings.Builder
	for _, p := range paragraphs {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(lineBreakRe.ReplaceAllString(trimmed, "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// StripMarkup removes any embedded HTML from catalog fields so stored
// markup never reaches a view as structure.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.TrimSpace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String())
}
