package interfaces

import (
	"context"

	"github.com/m-mizutani/utmget/pkg/domain/model"
)

// DiscoverUseCase defines the gallery discovery stage
type DiscoverUseCase interface {
	// Discover returns the deduplicated list of downloadable gallery entries
	Discover(ctx context.Context) ([]model.GalleryEntry, error)
}

// InstallUseCase defines the download-and-install stage
type InstallUseCase interface {
	// Install downloads archiveURL, extracts it into the documents directory
	// and places the requested number of renamed copies
	Install(ctx context.Context, archiveURL string, opts *model.InstallOptions) ([]model.InstallRecord, error)
}
