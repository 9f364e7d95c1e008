package usecase

import (
	"context"
	"net/url"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/utmget/pkg/domain/interfaces"
	"github.com/m-mizutani/utmget/pkg/domain/model"
	"github.com/m-mizutani/utmget/pkg/gallery"
)

type discoverUseCase struct {
	fetcher interfaces.Fetcher
	base    *url.URL
}

// NewDiscover creates the gallery discovery use case. base is the absolute
// gallery index URL every discovered page must live under.
func NewDiscover(fetcher interfaces.Fetcher, base *url.URL) interfaces.DiscoverUseCase {
	return &discoverUseCase{
		fetcher: fetcher,
		base:    base,
	}
}

// Discover fetches the gallery index and reconciles the two page sources
// (hydration data first, anchor scan as fallback) into one deduplicated
// list. A failed detail-page fetch drops that entry only; a failed index
// fetch or an empty final list is fatal.
func (uc *discoverUseCase) Discover(ctx context.Context) ([]model.GalleryEntry, error) {
	logger := ctxlog.From(ctx)

	indexHTML, err := uc.fetcher.Fetch(ctx, uc.base.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch gallery index", goerr.V("url", uc.base.String()))
	}

	entries := gallery.ExtractHydration(indexHTML, uc.base)
	if len(entries) > 0 {
		logger.Debug("Using embedded hydration data", "entries", len(entries))
	} else {
		pages := gallery.FindPageLinks(indexHTML, uc.base)
		logger.Debug("No hydration data, scanning anchors", "pages", len(pages))
		for _, p := range pages {
			entries = append(entries, model.GalleryEntry{Page: p})
		}
	}

	resolved := make([]model.GalleryEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.HasArchives() {
			pageHTML, err := uc.fetcher.Fetch(ctx, entry.Page)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				logger.Warn("Skipping gallery page", "page", entry.Page, "error", err)
				continue
			}

			pageURL, err := url.Parse(entry.Page)
			if err != nil {
				logger.Warn("Skipping unparsable page URL", "page", entry.Page, "error", err)
				continue
			}

			entry.ArchiveLinks = gallery.FindArchiveLinks(pageHTML, pageURL)
			if entry.Title == "" {
				entry.Title = gallery.PageTitle(pageHTML)
			}
		}

		if entry.Title == "" {
			entry.Title = entry.Page
		}
		if !entry.HasArchives() {
			logger.Debug("Dropping entry without archive links", "page", entry.Page)
			continue
		}
		resolved = append(resolved, entry)
	}

	resolved = model.DedupeEntries(resolved)
	if len(resolved) == 0 {
		return nil, goerr.New("no downloadable VMs found", goerr.V("url", uc.base.String()))
	}

	logger.Info("Discovered gallery entries", "count", len(resolved))
	return resolved, nil
}
