package diagram

import (
	"strings"

	"golang.org/x/net/html"
)

const nbsp = "\u00a0"

// tags that end a visual line in draw.io labels
var lineBreakTags = map[string]bool{
	"br":  true,
	"div": true,
	"p":   true,
	"li":  true,
	"hr":  true,
	"tr":  true,
}

// StripMarkup removes the HTML a cell value may carry and returns its plain
// text. Block level tags and <br> become newlines, entities are decoded and
// non-breaking spaces are normalised.
func StripMarkup(value string) string {
	if !strings.ContainsAny(value, "<&") {
		return strings.ReplaceAll(value, nbsp, " ")
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(value))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.ReplaceAll(b.String(), nbsp, " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if lineBreakTags[string(name)] {
				b.WriteByte('\n')
			}
		}
	}
}

// Lines returns the trimmed, non-empty lines of the stripped value.
func Lines(value string) []string {
	return splitLines(StripMarkup(value))
}

// FirstLine returns the first non-empty line of the stripped value.
func FirstLine(value string) string {
	return firstOf(splitLines(StripMarkup(value)))
}

// Text returns the stripped value with its lines joined by single spaces.
func Text(value string) string {
	return strings.Join(Lines(value), " ")
}

// LeadingText returns the text in front of the first tag or line break that
// follows visible content. Tags wrapping the start of the value are skipped,
// so "<b>Order</b><br>items" yields "Order".
func LeadingText(value string) string {
	if !strings.ContainsRune(value, '<') {
		return FirstLine(value)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(value))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return firstOf(splitLines(b.String()))
		case html.TextToken:
			b.Write(z.Text())
		default:
			if lines := splitLines(b.String()); len(lines) > 0 {
				return lines[0]
			}
		}
	}
}

func splitLines(plain string) []string {
	plain = strings.ReplaceAll(plain, nbsp, " ")
	lines := make([]string, 0)
	for line := range strings.SplitSeq(plain, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func firstOf(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
