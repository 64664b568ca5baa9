package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func handleConfigShow(ctx context.Context, c *cli.Command) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}

	custom := app.store.CustomSoundPath()
	if custom == "" {
		custom = "(bundled default)"
	}

	fmt.Printf("config file:  %s\n", app.store.Path())
	fmt.Printf("log file:     %s\n", app.sink.LogPath())
	fmt.Printf("enabled:      %t\n", app.store.Enabled())
	fmt.Printf("cooldown:     %s\n", app.store.Cooldown())
	fmt.Printf("sound:        %s\n", custom)
	return nil
}
