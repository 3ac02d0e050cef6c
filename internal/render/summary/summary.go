// Package summary turns entry HTML into the one-line plain text shown below
// article titles.
package summary

import (
	"html"
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

// blockTags end a sentence run; their text is separated by a space.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "h1": {}, "h2": {}, "h3": {},
	"h4": {}, "h5": {}, "h6": {}, "blockquote": {}, "tr": {}, "td": {},
	"figcaption": {}, "section": {}, "article": {},
}

// PlainText drops markup, scripts and styles and collapses whitespace.
func PlainText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return collapse(html.UnescapeString(raw))
	}
	var b strings.Builder
	collectText(doc, &b)
	return collapse(b.String())
}

func collectText(node *nethtml.Node, b *strings.Builder) {
	switch node.Type {
	case nethtml.TextNode:
		b.WriteString(node.Data)
		return
	case nethtml.ElementNode:
		switch strings.ToLower(node.Data) {
		case "script", "style", "noscript", "img", "iframe":
			return
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, b)
	}
	if node.Type == nethtml.ElementNode {
		if _, ok := blockTags[strings.ToLower(node.Data)]; ok {
			b.WriteString(" ")
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Excerpt returns at most maxRunes runes of PlainText(raw), cut at a word
// boundary when one is close and ending in "..." when shortened.
func Excerpt(raw string, maxRunes int) string {
	text := PlainText(raw)
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return strings.Repeat(".", maxRunes)
	}
	runes := []rune(text)
	cut := string(runes[:maxRunes-3])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}
