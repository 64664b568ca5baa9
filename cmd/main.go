package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/termbell/termbell/internal/bell"
	"github.com/termbell/termbell/internal/config"
	"github.com/termbell/termbell/internal/notify"
	"github.com/termbell/termbell/internal/player"
	"github.com/termbell/termbell/internal/sound"
)

var (
	version  = "dev"
	revision = "none"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:  "termbell",
		Usage: "Ring an audible bell when a terminal command fails",
		Description: `termbell watches command executions for failure signals - error keywords
in the live output or command line, and non-zero exits of directory-change
commands - and plays a notification sound through the first working audio
player it finds.`,
		Version: fmt.Sprintf("%s (rev: %s)", version, revision),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable verbose logging",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a command, ringing the bell if it shows failure signals",
				Action:    handleRun,
				ArgsUsage: "<command> [args...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "terminal",
						Usage: "Terminal name recorded in the diagnostic log",
						Value: "termbell",
					},
				},
			},
			{
				Name:   "scan",
				Usage:  "Scan piped output for failure signals (e.g. make 2>&1 | termbell scan)",
				Action: handleScan,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "command-line",
						Usage: "Command line text associated with the piped output",
					},
					&cli.StringFlag{
						Name:  "terminal",
						Usage: "Terminal name recorded in the diagnostic log",
						Value: "pipe",
					},
				},
			},
			{
				Name:  "sound",
				Usage: "Manage the notification sound",
				Commands: []*cli.Command{
					{
						Name:      "set",
						Usage:     "Use a custom sound file",
						Action:    handleSoundSet,
						ArgsUsage: "<path>",
					},
					{
						Name:   "clear",
						Usage:  "Go back to the bundled default sound",
						Action: handleSoundClear,
					},
					{
						Name:   "test",
						Usage:  "Play the configured sound now",
						Action: handleSoundTest,
					},
				},
			},
			{
				Name:  "config",
				Usage: "Inspect termbell configuration",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the effective configuration",
						Action: handleConfigShow,
					},
				},
			},
		},
		Before: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Failed to run application")
	}
}

// appContext bundles the wired-up collaborators behind one config path.
type appContext struct {
	store    *config.FileStore
	sink     *notify.Desktop
	resolver *sound.Resolver
	cascade  *player.Cascade
	bell     *bell.Bell
}

func buildApp(c *cli.Command) (*appContext, error) {
	path := c.String("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	store := config.NewFileStore(path)
	sink := notify.NewDesktop(filepath.Join(filepath.Dir(path), "termbell.log"))
	resolver := sound.NewResolver(store, sink, "")
	cascade := player.NewCascade(sink)

	return &appContext{
		store:    store,
		sink:     sink,
		resolver: resolver,
		cascade:  cascade,
		bell:     bell.New(store, sink, resolver, cascade),
	}, nil
}
