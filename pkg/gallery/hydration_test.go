package gallery_test

import (
	"net/url"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/utmget/pkg/gallery"
)

func galleryBase(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://mac.getutm.app/gallery/")
	gt.NoError(t, err)
	return u
}

func TestExtractHydration_NoScript(t *testing.T) {
	html := `<html><body>
		<a href="/gallery/a.html">A</a>
		<script type="application/json">{"page":"/gallery/a","downloads":["a.zip"]}</script>
	</body></html>`

	entries := gallery.ExtractHydration(html, galleryBase(t))
	gt.A(t, entries).Length(0)
}

func TestExtractHydration_MalformedJSON(t *testing.T) {
	html := `<html><body>
		<script id="__NEXT_DATA__" type="application/json">{"props": not json</script>
	</body></html>`

	entries := gallery.ExtractHydration(html, galleryBase(t))
	gt.A(t, entries).Length(0)
}

func TestExtractHydration_MergesSharedPage(t *testing.T) {
	// Two nested objects describe the same page: one with a plain downloads
	// list, one with a keyed downloads object that repeats a link. The merged
	// entry must hold the union in first-seen order without duplicates.
	html := `<html><body><script id="__NEXT_DATA__" type="application/json">
	{"props":{"items":[
		{"page":"/gallery/debian","name":"Debian 12","downloads":["https://cdn.example.com/debian-a.zip"]},
		{"page":"/gallery/debian/","downloads":{"mirror":"https://cdn.example.com/debian-a.zip","primary":"https://cdn.example.com/debian-b.zip"}}
	]}}
	</script></body></html>`

	entries := gallery.ExtractHydration(html, galleryBase(t))
	gt.A(t, entries).Length(1)

	gt.V(t, entries[0].Title).Equal("Debian 12")
	gt.V(t, entries[0].Page).Equal("https://mac.getutm.app/gallery/debian")
	gt.A(t, entries[0].ArchiveLinks).Length(2)
	gt.V(t, entries[0].ArchiveLinks[0]).Equal("https://cdn.example.com/debian-a.zip")
	gt.V(t, entries[0].ArchiveLinks[1]).Equal("https://cdn.example.com/debian-b.zip")
}

func TestExtractHydration_RelativeResolution(t *testing.T) {
	// Relative page ids join against the gallery base, relative archive
	// links against the page URL. Title falls back to the last path segment.
	html := `<html><body><script id="__NEXT_DATA__" type="application/json">
	{"pages":[{"path":"linux/ubuntu","downloads":["Ubuntu.zip"]}]}
	</script></body></html>`

	entries := gallery.ExtractHydration(html, galleryBase(t))
	gt.A(t, entries).Length(1)

	gt.V(t, entries[0].Page).Equal("https://mac.getutm.app/gallery/linux/ubuntu")
	gt.V(t, entries[0].Title).Equal("ubuntu")
	gt.A(t, entries[0].ArchiveLinks).Length(1)
	gt.V(t, entries[0].ArchiveLinks[0]).Equal("https://mac.getutm.app/gallery/linux/Ubuntu.zip")
}

func TestExtractHydration_AlternateKeys(t *testing.T) {
	html := `<html><body><script id="__NEXT_DATA__" type="application/json">
	{"data":{"slug":"fedora","title":"Fedora 40","files":["https://cdn.example.com/fedora.zip","https://cdn.example.com/notes.txt"]}}
	</script></body></html>`

	entries := gallery.ExtractHydration(html, galleryBase(t))
	gt.A(t, entries).Length(1)

	gt.V(t, entries[0].Title).Equal("Fedora 40")
	gt.V(t, entries[0].Page).Equal("https://mac.getutm.app/gallery/fedora")
	// Only archive-suffixed strings are collected
	gt.A(t, entries[0].ArchiveLinks).Length(1)
	gt.V(t, entries[0].ArchiveLinks[0]).Equal("https://cdn.example.com/fedora.zip")
}

func TestExtractHydration_NestedMatches(t *testing.T) {
	// A matching node inside another matching node must still be collected
	html := `<html><body><script id="__NEXT_DATA__" type="application/json">
	{"page":"/gallery/outer","downloads":["outer.zip"],
	 "children":[{"page":"/gallery/inner","downloads":["inner.zip"]}]}
	</script></body></html>`

	entries := gallery.ExtractHydration(html, galleryBase(t))
	gt.A(t, entries).Length(2)
}

func TestExtractHydration_NoDownloads(t *testing.T) {
	html := `<html><body><script id="__NEXT_DATA__" type="application/json">
	{"page":"/gallery/empty","name":"Empty"}
	</script></body></html>`

	entries := gallery.ExtractHydration(html, galleryBase(t))
	gt.A(t, entries).Length(0)
}
