package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/termbell/termbell/internal/runner"
)

func handleRun(ctx context.Context, c *cli.Command) error {
	argv := c.Args().Slice()
	if len(argv) == 0 {
		return fmt.Errorf("a command to run is required")
	}

	app, err := buildApp(c)
	if err != nil {
		return err
	}

	code, err := runner.Run(ctx, app.bell, c.String("terminal"), argv)
	if err != nil {
		return err
	}
	if code != 0 {
		// Propagate the wrapped command's exit code.
		return cli.Exit("", code)
	}
	return nil
}

func handleScan(ctx context.Context, c *cli.Command) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}

	// Stay transparent in a pipeline: everything read is echoed to stdout.
	input := io.TeeReader(os.Stdin, os.Stdout)
	runner.Scan(ctx, app.bell, c.String("terminal"), c.String("command-line"), input)
	return nil
}
