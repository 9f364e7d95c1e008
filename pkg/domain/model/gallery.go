package model

import (
	"fmt"
	"strings"
)

// GalleryEntry represents one downloadable VM discovered in the gallery.
// Entries are unique by normalized page URL in the final list shown to the
// operator.
type GalleryEntry struct {
	Title        string   // Display title shown in the picker
	Page         string   // Absolute detail page URL
	ArchiveLinks []string // Absolute archive URLs in first-seen order
}

// Key returns the deduplication key of the entry
func (e *GalleryEntry) Key() string {
	return NormalizePageURL(e.Page)
}

// HasArchives reports whether at least one archive link has been resolved
func (e *GalleryEntry) HasArchives() bool {
	return len(e.ArchiveLinks) > 0
}

// NormalizePageURL strips the trailing slash so "/a/" and "/a" collapse to
// one key
func NormalizePageURL(raw string) string {
	return strings.TrimSuffix(raw, "/")
}

// DedupeEntries keeps the first occurrence of each normalized page URL,
// preserving order
func DedupeEntries(entries []GalleryEntry) []GalleryEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]GalleryEntry, 0, len(entries))
	for _, e := range entries {
		key := e.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// InstallOptions carries the parameters of the install pipeline
type InstallOptions struct {
	BaseName     string // Explicit base name; empty means generate one
	Copies       int    // Number of installed copies, at least 1
	DownloadsDir string // Where the archive is downloaded to
	DocumentsDir string // UTM documents directory receiving the packages
}

// CopyName returns the display name of the i-th copy (1-origin). A single
// copy uses the base name verbatim, multiple copies get a numeric suffix.
func (o *InstallOptions) CopyName(base string, i int) string {
	if o.Copies == 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, i)
}

// InstallRecord represents one placed VM package
type InstallRecord struct {
	PackagePath string // Filesystem path of the installed .utm package
	DisplayName string // Name written into the package's config.plist
}
