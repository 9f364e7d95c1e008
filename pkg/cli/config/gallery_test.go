package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/utmget/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func TestGallery_ParseBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "default",
			input:    config.DefaultGalleryURL,
			expected: "https://mac.getutm.app/gallery/",
		},
		{
			name:     "trailing slash added",
			input:    "https://mirror.example.com/gallery",
			expected: "https://mirror.example.com/gallery/",
		},
		{
			name:    "relative URL rejected",
			input:   "/gallery/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Gallery{BaseURL: tt.input}
			u, err := cfg.ParseBaseURL()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.V(t, u.String()).Equal(tt.expected)
		})
	}
}

func TestGallery_LoadFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `gallery = "https://mirror.example.com/gallery/"
user_agent = "custom-agent/2.0"
utm_docs = "/tmp/utm-docs"
`
	gt.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	t.Run("file fills unset flags", func(t *testing.T) {
		var galleryCfg config.Gallery
		var installCfg config.Install

		cmd := &cli.Command{
			Name:  "test",
			Flags: append(galleryCfg.Flags(), installCfg.Flags()...),
			Action: func(ctx context.Context, c *cli.Command) error {
				return galleryCfg.LoadFile(c, &installCfg)
			},
		}
		gt.NoError(t, cmd.Run(context.Background(), []string{"test", "--config", cfgPath}))

		gt.V(t, galleryCfg.BaseURL).Equal("https://mirror.example.com/gallery/")
		gt.V(t, galleryCfg.UserAgent).Equal("custom-agent/2.0")
		gt.V(t, installCfg.UTMDocs).Equal("/tmp/utm-docs")
	})

	t.Run("explicit flag wins over file", func(t *testing.T) {
		var galleryCfg config.Gallery
		var installCfg config.Install

		cmd := &cli.Command{
			Name:  "test",
			Flags: append(galleryCfg.Flags(), installCfg.Flags()...),
			Action: func(ctx context.Context, c *cli.Command) error {
				return galleryCfg.LoadFile(c, &installCfg)
			},
		}
		gt.NoError(t, cmd.Run(context.Background(), []string{
			"test", "--config", cfgPath, "--gallery", "https://cli.example.com/gallery/",
		}))

		gt.V(t, galleryCfg.BaseURL).Equal("https://cli.example.com/gallery/")
		gt.V(t, galleryCfg.UserAgent).Equal("custom-agent/2.0")
	})
}

func TestInstall_Resolve(t *testing.T) {
	t.Run("copies must be positive", func(t *testing.T) {
		cfg := &config.Install{Copies: 0, Downloads: "/tmp/d", UTMDocs: "/tmp/u"}
		gt.Error(t, cfg.Resolve())
	})

	t.Run("explicit directories kept", func(t *testing.T) {
		cfg := &config.Install{Copies: 2, Downloads: "/tmp/d", UTMDocs: "/tmp/u"}
		gt.NoError(t, cfg.Resolve())
		gt.V(t, cfg.Downloads).Equal("/tmp/d")
		gt.V(t, cfg.UTMDocs).Equal("/tmp/u")
	})

	t.Run("defaults filled from home", func(t *testing.T) {
		cfg := &config.Install{Copies: 1}
		gt.NoError(t, cfg.Resolve())
		gt.V(t, cfg.Downloads).NotEqual("")
		gt.V(t, cfg.UTMDocs).NotEqual("")
	})
}
