package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/utmget/pkg/cli/config"
	"github.com/m-mizutani/utmget/pkg/domain/model"
	"github.com/m-mizutani/utmget/pkg/infra/web"
	"github.com/m-mizutani/utmget/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdInstall() *cli.Command {
	var (
		galleryCfg config.Gallery
		installCfg config.Install
	)

	flags := append(galleryCfg.Flags(), installCfg.Flags()...)

	return &cli.Command{
		Name:    "install",
		Aliases: []string{"i"},
		Usage:   "Pick a gallery VM, download it and install it into UTM",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := galleryCfg.LoadFile(c, &installCfg); err != nil {
				return err
			}
			if err := installCfg.Resolve(); err != nil {
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

			choice, err := promptSelect(ctx, os.Stdin, os.Stdout, entries)
			if err != nil {
				return err
			}
			if choice == nil {
				return nil
			}

			records, err := usecase.NewInstall(client).Install(ctx, choice.ArchiveLinks[0], &model.InstallOptions{
				BaseName:     installCfg.Name,
				Copies:       installCfg.Copies,
				DownloadsDir: installCfg.Downloads,
				DocumentsDir: installCfg.UTMDocs,
			})
			if err != nil {
				return err
			}

			name := color.New(color.Bold)
			fmt.Println("\nInstalled VM(s):")
			for _, r := range records {
				fmt.Printf("  %s → %s\n", name.Sprint(r.DisplayName), r.PackagePath)
			}
			fmt.Println("\nDone. Restart UTM to see them.")
			return nil
		},
	}
}
