package config

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Install holds install pipeline configuration
type Install struct {
	Name      string
	Copies    int
	Downloads string
	UTMDocs   string
}

// Flags returns CLI flags for install configuration
func (c *Install) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Base VM name (default: random two-word name with timestamp)",
			Destination: &c.Name,
			Sources:     cli.EnvVars("UTMGET_NAME"),
		},
		&cli.IntFlag{
			Name:        "copies",
			Usage:       "Number of installed copies to create",
			Value:       1,
			Destination: &c.Copies,
			Sources:     cli.EnvVars("UTMGET_COPIES"),
		},
		&cli.StringFlag{
			Name:        "downloads",
			Usage:       "Download directory (default: ~/Downloads)",
			Destination: &c.Downloads,
			Sources:     cli.EnvVars("UTMGET_DOWNLOADS"),
		},
		&cli.StringFlag{
			Name:        "utm-docs",
			Usage:       "UTM documents directory (default: UTM app container, else ~/UTM)",
			Destination: &c.UTMDocs,
			Sources:     cli.EnvVars("UTMGET_UTM_DOCS"),
		},
	}
}

// Resolve validates the configuration and fills directory defaults from the
// user's home
func (c *Install) Resolve() error {
	if c.Copies < 1 {
		return goerr.New("copies must be at least 1", goerr.V("copies", c.Copies))
	}

	if c.Downloads == "" || c.UTMDocs == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return goerr.Wrap(err, "failed to resolve home directory")
		}
		if c.Downloads == "" {
			c.Downloads = filepath.Join(home, "Downloads")
		}
		if c.UTMDocs == "" {
			c.UTMDocs = defaultDocumentsDir(home)
		}
	}
	return nil
}

// defaultDocumentsDir prefers the sandboxed UTM app container when it
// exists, else falls back to ~/UTM
func defaultDocumentsDir(home string) string {
	candidates := []string{
		filepath.Join(home, "Library", "Containers", "com.utmapp.UTM", "Data", "Documents"),
		filepath.Join(home, "UTM"),
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return candidates[1]
}
