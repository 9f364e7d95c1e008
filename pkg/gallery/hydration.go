package gallery

import (
	"encoding/json"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/utmget/pkg/domain/model"
)

// hydrationScriptID is the element id of the embedded client-state blob on
// server-rendered gallery pages
const hydrationScriptID = "__NEXT_DATA__"

// archiveExt is the archive file extension the gallery publishes
const archiveExt = ".zip"

var (
	// pageKeys identify a gallery detail page inside a hydration object
	pageKeys = []string{"page", "pagePath", "path", "url", "slug", "href"}

	// downloadAltKeys are checked when the primary "downloads" field is absent
	downloadAltKeys = []string{"download", "files", "links", "assets"}

	titleKeys = []string{"name", "title"}
)

// ExtractHydration locates the embedded hydration JSON in htmlText and
// collects gallery entries from it. The result is empty when the script
// element is absent or its payload is not valid JSON; neither case is an
// error, the caller falls back to anchor scraping.
func ExtractHydration(htmlText string, base *url.URL) []model.GalleryEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	raw := doc.Find("script#" + hydrationScriptID).First().Text()
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var tree any
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		return nil
	}

	w := &hydrationWalker{
		base:    base,
		entries: map[string]*model.GalleryEntry{},
	}
	w.walk(tree)

	out := make([]model.GalleryEntry, 0, len(w.order))
	for _, key := range w.order {
		entry := w.entries[key]
		entry.ArchiveLinks = dedupeStrings(entry.ArchiveLinks)
		out = append(out, *entry)
	}
	return out
}

// hydrationWalker accumulates entries keyed by normalized page URL while
// traversing the JSON value tree
type hydrationWalker struct {
	base    *url.URL
	entries map[string]*model.GalleryEntry
	order   []string
}

// walk descends into every child value. Matching nodes may nest inside other
// matching nodes, so traversal never stops early.
func (w *hydrationWalker) walk(v any) {
	switch node := v.(type) {
	case map[string]any:
		w.visitObject(node)
		for _, k := range sortedKeys(node) {
			w.walk(node[k])
		}
	case []any:
		for _, child := range node {
			w.walk(child)
		}
	}
}

// visitObject records the node when it carries both a page identifier and at
// least one archive link
func (w *hydrationWalker) visitObject(node map[string]any) {
	pageID := firstString(node, pageKeys)
	if pageID == "" {
		return
	}

	var links []string
	if d, ok := node["downloads"]; ok {
		links = collectArchiveLinks(d, nil)
	} else {
		for _, k := range downloadAltKeys {
			if d, ok := node[k]; ok {
				links = collectArchiveLinks(d, links)
			}
		}
	}
	if len(links) == 0 {
		return
	}

	pageURL := resolveAgainst(w.base, pageID)
	if pageURL == nil {
		return
	}

	key := model.NormalizePageURL(pageURL.String())
	entry, ok := w.entries[key]
	if !ok {
		entry = &model.GalleryEntry{
			Title: w.titleOf(node, pageURL),
			Page:  pageURL.String(),
		}
		w.entries[key] = entry
		w.order = append(w.order, key)
	}

	for _, link := range links {
		if u := resolveAgainst(pageURL, link); u != nil {
			entry.ArchiveLinks = append(entry.ArchiveLinks, u.String())
		}
	}
}

// titleOf infers the entry title from a name field, falling back to the last
// path segment of the page URL
func (w *hydrationWalker) titleOf(node map[string]any, pageURL *url.URL) string {
	if t := firstString(node, titleKeys); t != "" {
		return t
	}
	if seg := path.Base(strings.TrimSuffix(pageURL.Path, "/")); seg != "" && seg != "." && seg != "/" {
		return seg
	}
	return pageURL.String()
}

// collectArchiveLinks gathers every archive-suffixed string reachable under
// v, at any nesting depth
func collectArchiveLinks(v any, acc []string) []string {
	switch node := v.(type) {
	case string:
		if strings.HasSuffix(strings.ToLower(node), archiveExt) {
			acc = append(acc, node)
		}
	case map[string]any:
		for _, k := range sortedKeys(node) {
			acc = collectArchiveLinks(node[k], acc)
		}
	case []any:
		for _, child := range node {
			acc = collectArchiveLinks(child, acc)
		}
	}
	return acc
}

// resolveAgainst parses ref and joins it against base unless it is already
// absolute. Returns nil when ref is unusable.
func resolveAgainst(base *url.URL, ref string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil
	}
	if u.IsAbs() {
		return u
	}
	if base == nil {
		return nil
	}
	return base.ResolveReference(u)
}

func firstString(node map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := node[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// sortedKeys makes map traversal deterministic
func sortedKeys(node map[string]any) []string {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
