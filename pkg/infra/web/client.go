package web

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/schollz/progressbar/v3"
)

const (
	defaultUserAgent = "utmget/1.0 (+https://getutm.app)"

	// Page fetches fail fast; the archive download only bounds the wait for
	// response headers so large archives are never cut off mid-stream.
	defaultFetchTimeout   = 20 * time.Second
	downloadHeaderTimeout = 60 * time.Second
)

// Client fetches gallery pages and downloads archives over HTTP
type Client struct {
	userAgent string
	fetch     *http.Client
	download  *http.Client
	progress  bool
}

// Option configures a Client
type Option func(*Client)

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithFetchTimeout overrides the page fetch timeout
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.fetch.Timeout = d
	}
}

// WithProgress toggles the terminal progress bar during downloads
func WithProgress(enabled bool) Option {
	return func(c *Client) {
		c.progress = enabled
	}
}

// New creates a gallery HTTP client
func New(opts ...Option) *Client {
	c := &Client{
		userAgent: defaultUserAgent,
		fetch: &http.Client{
			Timeout: defaultFetchTimeout,
		},
		download: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: downloadHeaderTimeout,
			},
		},
		progress: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a GET and returns the body as text. Any non-2xx status is
// an error.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.get(ctx, c.fetch, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read response body", goerr.V("url", rawURL))
	}
	return string(body), nil
}

// Download streams rawURL into destPath. The body is written to a temporary
// sibling first and renamed into place on success, so an aborted download
// never leaves a truncated archive under the final name.
func (c *Client) Download(ctx context.Context, rawURL, destPath string) error {
	resp, err := c.get(ctx, c.download, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpPath := destPath + ".partial-" + uuid.NewString()
	f, err := os.Create(tmpPath)
	if err != nil {
		return goerr.Wrap(err, "failed to create download file", goerr.V("path", tmpPath))
	}

	var w io.Writer = f
	if c.progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(destPath))
		defer bar.Close()
		w = io.MultiWriter(f, bar)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return goerr.Wrap(err, "download interrupted", goerr.V("url", rawURL))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to finish download file", goerr.V("path", tmpPath))
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to place downloaded archive", goerr.V("path", destPath))
	}
	return nil
}

func (c *Client) get(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", rawURL))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "request failed", goerr.V("url", rawURL))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, goerr.New("unexpected response status",
			goerr.V("url", rawURL), goerr.V("status", resp.Status))
	}
	return resp, nil
}
