package config

import (
	"net/url"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// DefaultGalleryURL is the public UTM gallery index
const DefaultGalleryURL = "https://mac.getutm.app/gallery/"

// Gallery holds gallery access configuration
type Gallery struct {
	BaseURL    string
	UserAgent  string
	ConfigPath string
}

// Flags returns CLI flags for gallery configuration
func (c *Gallery) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gallery",
			Usage:       "Gallery index URL",
			Value:       DefaultGalleryURL,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("UTMGET_GALLERY"),
		},
		&cli.StringFlag{
			Name:        "user-agent",
			Usage:       "User-Agent header for gallery requests",
			Destination: &c.UserAgent,
			Sources:     cli.EnvVars("UTMGET_USER_AGENT"),
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "TOML config file",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("UTMGET_CONFIG"),
		},
	}
}

// fileConfig mirrors the TOML config file schema
type fileConfig struct {
	Gallery   string `toml:"gallery"`
	UserAgent string `toml:"user_agent"`
	Downloads string `toml:"downloads"`
	UTMDocs   string `toml:"utm_docs"`
}

// LoadFile merges values from the TOML config file, if one was given. Flags
// set explicitly on the command line win over file values.
func (c *Gallery) LoadFile(cmd *cli.Command, install *Install) error {
	if c.ConfigPath == "" {
		return nil
	}

	data, err := os.ReadFile(c.ConfigPath)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.ConfigPath))
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.ConfigPath))
	}

	if fc.Gallery != "" && !cmd.IsSet("gallery") {
		c.BaseURL = fc.Gallery
	}
	if fc.UserAgent != "" && !cmd.IsSet("user-agent") {
		c.UserAgent = fc.UserAgent
	}
	if install != nil {
		if fc.Downloads != "" && !cmd.IsSet("downloads") {
			install.Downloads = fc.Downloads
		}
		if fc.UTMDocs != "" && !cmd.IsSet("utm-docs") {
			install.UTMDocs = fc.UTMDocs
		}
	}
	return nil
}

// ParseBaseURL validates the gallery URL and guarantees a trailing slash so
// relative references resolve under the gallery, not beside it
func (c *Gallery) ParseBaseURL() (*url.URL, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid gallery URL", goerr.V("url", c.BaseURL))
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, goerr.New("gallery URL must be absolute", goerr.V("url", c.BaseURL))
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}
