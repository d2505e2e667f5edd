// Package parser extracts visible text and titles from raw page HTML. The
// live page handle is the primary source; this is the fallback path when a
// page returns markup but the in-page extraction comes back empty.
package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// VisibleText returns the rendered text of the page body with script, style
// and template elements removed. Whitespace is left as-is apart from
// trimming, matching what a browser's innerText would hand back closely
// enough for substring classification.
func VisibleText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.TrimSpace(body.Text()), nil
}

// Title returns the page title, preferring the og:title meta tag over the
// <title> element.
func Title(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og, nil
		}
	}

	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}
