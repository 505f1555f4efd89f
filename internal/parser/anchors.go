// Package parser pulls hyperlink targets out of fetched HTML documents.
package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Anchors returns the href of every anchor element in document order, resolved
// against base (or the document's <base href> when present). Hrefs that cannot
// be resolved are returned trimmed but unresolved so callers can filter them.
func Anchors(html, base string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		baseURL = nil
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok && baseURL != nil {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			baseURL = baseURL.ResolveReference(ref)
		}
	}

	var out []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		out = append(out, resolve(baseURL, strings.TrimSpace(href)))
	})
	return out, nil
}

func resolve(base *url.URL, href string) string {
	if href == "" || base == nil {
		return href
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
