package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/utmget/pkg/cli/config"
	"github.com/m-mizutani/utmget/pkg/infra/web"
	"github.com/m-mizutani/utmget/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdList() *cli.Command {
	var galleryCfg config.Gallery

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List downloadable VMs in the gallery",
		Flags:   galleryCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := galleryCfg.LoadFile(c, nil); err != nil {
				return err
			}
			base, err := galleryCfg.ParseBaseURL()
			if err != nil {
				return err
			}

			client := web.New(web.WithUserAgent(galleryCfg.UserAgent))

			logger.Info("Fetching UTM gallery index", "url", base.String())
			entries, err := usecase.NewDiscover(client, base).Discover(ctx)
			if err != nil {
				return err
			}

			renderEntries(os.Stdout, entries)
			return nil
		},
	}
}
