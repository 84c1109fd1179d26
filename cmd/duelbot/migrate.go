package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/app"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/config"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

func migrateCommand() *cli.Command {
	dirFlag := &cli.StringFlag{Name: "dir", EnvVars: []string{"MIGRATIONS_DIR"}, Usage: "migration files directory"}

	withMigrator := func(run func(c *cli.Context, m *app.Migrator) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat)
			m, err := app.NewMigrator(cfg, c.String("dir"), logger)
			if err != nil {
				return err
			}
			defer m.Close()
			return run(c, m)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "outcome ledger migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Flags: []cli.Flag{dirFlag},
				Action: withMigrator(func(_ *cli.Context, m *app.Migrator) error {
					return m.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{dirFlag, &cli.IntFlag{Name: "steps", Value: 1}},
				Action: withMigrator(func(c *cli.Context, m *app.Migrator) error {
					return m.Down(c.Int("steps"))
				}),
			},
			{
				Name:  "version",
				Usage: "print the applied version",
				Flags: []cli.Flag{dirFlag},
				Action: withMigrator(func(c *cli.Context, m *app.Migrator) error {
					version, dirty, ok, err := m.Version()
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(c.App.Writer, "version: none")
						return nil
					}
					fmt.Fprintf(c.App.Writer, "version: %d\ndirty: %t\n", version, dirty)
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "set the version without running migrations",
				ArgsUsage: "<version>",
				Flags:     []cli.Flag{dirFlag},
				Action: withMigrator(func(c *cli.Context, m *app.Migrator) error {
					version, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("invalid version %q: %w", c.Args().First(), err)
					}
					return m.Force(version)
				}),
			},
		},
	}
}
