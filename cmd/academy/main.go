package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/p-n-ai/pai-academy/internal/cli"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/platform/config"
	"github.com/p-n-ai/pai-academy/internal/progress"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	catalog, err := curriculum.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	app := &cli.App{
		Catalog: catalog,
		Tracker: progress.NewClient(progress.WithBaseURL(cfg.APIBaseURL)),
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	return cli.NewRootCmd(app).Execute()
}
