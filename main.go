package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/m-mizutani/utmget/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, os.Args); err != nil {
		os.Exit(1)
	}
}
