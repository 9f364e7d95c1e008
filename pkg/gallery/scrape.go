package gallery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindPageLinks scans the anchors of an index page for gallery detail pages.
// Links are resolved against base and only those under the gallery base URL
// survive. First-seen order is preserved.
func FindPageLinks(htmlText string, base *url.URL) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{}
	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || !isPageCandidate(href) {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		full := base.ResolveReference(u).String()
		if !strings.HasPrefix(full, base.String()) {
			return
		}
		if _, ok := seen[full]; ok {
			return
		}
		seen[full] = struct{}{}
		out = append(out, full)
	})
	return out
}

// isPageCandidate keeps hrefs that carry the gallery path marker or look
// like a page (HTML extension or trailing slash)
func isPageCandidate(href string) bool {
	if strings.Contains(href, "/gallery/") {
		return true
	}
	return strings.HasSuffix(href, ".html") || strings.HasSuffix(href, "/")
}

// FindArchiveLinks harvests archive links from a page's anchors. Unlike page
// discovery there is no gallery-base restriction: archives may live on any
// host. Links are resolved against the page's own URL.
func FindArchiveLinks(htmlText string, pageURL *url.URL) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{}
	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || !strings.HasSuffix(strings.ToLower(href), archiveExt) {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		full := pageURL.ResolveReference(u).String()
		if _, ok := seen[full]; ok {
			return
		}
		seen[full] = struct{}{}
		out = append(out, full)
	})
	return out
}

// PageTitle returns the text of the first h1 or h2 element, or "" when the
// page has no heading
func PageTitle(htmlText string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1, h2").First().Text())
}
