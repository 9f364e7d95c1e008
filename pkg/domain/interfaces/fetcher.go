package interfaces

import "context"

// Fetcher abstracts HTTP access to the gallery site
type Fetcher interface {
	// Fetch performs a GET and returns the response body as text. Non-2xx
	// responses are errors.
	Fetch(ctx context.Context, url string) (string, error)

	// Download streams url into destPath with terminal progress feedback
	Download(ctx context.Context, url, destPath string) error
}
