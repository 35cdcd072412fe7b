// Package extract pulls study-relevant content out of note HTML.
//
// Notes come from a known rich-text editor, so extraction is pattern based
// rather than a full HTML parse. Malformed or unclosed tags may under- or
// over-match; callers get fewer results, never an error.
package extract

import (
	"regexp"
	"strings"
)

var (
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	spaceRe     = regexp.MustCompile(`\s+`)
	sentenceRe  = regexp.MustCompile(`[.!?]+`)
	boldRe      = regexp.MustCompile(`(?i)<(strong|b)>([^<]+)</(strong|b)>`)
	italicRe    = regexp.MustCompile(`(?i)<(em|i)>([^<]+)</(em|i)>`)
	highlightRe = regexp.MustCompile(`(?i)<mark[^>]*>([^<]+)</mark>`)
	listItemRe  = regexp.MustCompile(`(?i)<li[^>]*>([^<]+)</li>`)
	headingRe   = regexp.MustCompile(`(?i)<h[1-6][^>]*>([^<]+)</h[1-6]>`)
)

// entityReplacer decodes the minimal entity set the note editor emits.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// StripHTML removes tags, decodes entities and collapses whitespace runs.
func StripHTML(html string) string {
	text := tagRe.ReplaceAllString(html, " ")
	text = entityReplacer.Replace(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// Sentences splits plain text on sentence terminators, keeping only
// sentences longer than 20 characters. Short fragments (captions, labels)
// carry too little signal to build study material from.
func Sentences(text string) []string {
	var sentences []string
	for _, part := range sentenceRe.Split(text, -1) {
		trimmed := strings.TrimSpace(part)
		if len(trimmed) > 20 {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// KeyTerms returns the text of emphasized elements (bold, italic, highlight)
// in first-occurrence order, deduplicated. Bold and italic terms are capped
// at 50 characters; highlighted passages may run longer, up to 100.
func KeyTerms(html string) []string {
	var terms []string
	seen := make(map[string]bool)

	add := func(term string, maxLen int) {
		if len(term) > 2 && len(term) < maxLen && !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}

	for _, m := range boldRe.FindAllString(html, -1) {
		add(StripHTML(m), 50)
	}
	for _, m := range italicRe.FindAllString(html, -1) {
		add(StripHTML(m), 50)
	}
	for _, m := range highlightRe.FindAllString(html, -1) {
		add(StripHTML(m), 100)
	}
	return terms
}

// ListItems returns the text of <li> elements between 6 and 199 characters.
func ListItems(html string) []string {
	var items []string
	for _, m := range listItemRe.FindAllString(html, -1) {
		item := StripHTML(m)
		if len(item) > 5 && len(item) < 200 {
			items = append(items, item)
		}
	}
	return items
}

// Headings returns the text of <h1>-<h6> elements longer than 3 characters.
func Headings(html string) []string {
	var headings []string
	for _, m := range headingRe.FindAllString(html, -1) {
		heading := StripHTML(m)
		if len(heading) > 3 {
			headings = append(headings, heading)
		}
	}
	return headings
}
