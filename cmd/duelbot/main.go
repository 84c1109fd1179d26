package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/app"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/config"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "duelbot",
		Usage: "Carcassonne Spain league duels: publishing and result review",
		Commands: []*cli.Command{
			checkCommand(),
			publishCommand(),
			simulateCommand(),
			reportCommand(),
			serveCommand(),
			botCommand(),
			migrateCommand(),
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and wires the application for one command.
func bootstrap(c *cli.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path := c.String("league"); path != "" {
		cfg.LeagueFile = path
	}
	if season := c.Int("season"); season > 0 {
		cfg.Season = season
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
	)
	logging.SetDefault(logger)

	return app.New(c.Context, cfg, logger)
}

func commonFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "league", Usage: "league file, overrides LEAGUE_FILE"},
		&cli.IntFlag{Name: "season", Usage: "season number, overrides SEASON"},
	}, extra...)
}
