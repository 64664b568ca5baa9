package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func handleSoundSet(ctx context.Context, c *cli.Command) error {
	path := c.Args().Get(0)
	if path == "" {
		return fmt.Errorf("a sound file path is required")
	}

	app, err := buildApp(c)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return fmt.Errorf("sound file %q does not exist", abs)
	}

	if err := app.store.SetCustomSoundPath(abs); err != nil {
		return err
	}
	app.resolver.ResetWarning()

	color.Green("Custom sound set to %s", abs)
	return nil
}

func handleSoundClear(ctx context.Context, c *cli.Command) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}

	if err := app.store.SetCustomSoundPath(""); err != nil {
		return err
	}
	app.resolver.ResetWarning()

	color.Green("Custom sound cleared, using the bundled default")
	return nil
}

func handleSoundTest(ctx context.Context, c *cli.Command) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Playing the configured sound...")
	if !app.bell.Ring() {
		return fmt.Errorf("no sound could be resolved")
	}
	color.Green("Done")
	return nil
}
