package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/urfave/cli/v2"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/app"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/observability"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const dateLayout = "2006-01-02"

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "review the results submitted on a day against the game history",
		Flags: commonFlags(
			&cli.StringFlag{Name: "date", Usage: "day to review, YYYY-mm-dd (yesterday by default)"},
			&cli.StringFlag{Name: "group", Usage: "only review this group"},
			&cli.BoolFlag{Name: "tolerant", Usage: "only check that claims are plausible, ties counting for either side"},
		),
		Action: func(c *cli.Context) error {
			a, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := dayFlag(c, "date", a, -1)
			if err != nil {
				return err
			}

			if c.Bool("tolerant") {
				return checkTolerant(c, a, day)
			}

			if name := c.String("group"); name != "" {
				g, err := a.League.Group(0, name)
				if err != nil {
					return err
				}
				reviews, err := a.Groups.ReviewDay(c.Context, g, day)
				printReviews(c.App.Writer, reviews)
				return err
			}

			report, err := a.Sweep(c.Context, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "run %s: %d duels checked on %s\n", report.RunID, len(report.Reviews), day.Format(dateLayout))
			printReviews(c.App.Writer, report.Reviews)
			for group, groupErr := range report.GroupErrors {
				fmt.Fprintf(c.App.Writer, "group %s could not be reviewed: %v\n", group, groupErr)
			}
			return nil
		},
	}
}

func checkTolerant(c *cli.Context, a *app.App, day time.Time) error {
	groups, err := a.League.Groups(0)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if name := c.String("group"); name != "" && g.Name != name {
			continue
		}
		duels, err := a.Groups.Submitted(c.Context, g, day)
		if err != nil {
			fmt.Fprintf(c.App.Writer, "group %s could not be read: %v\n", g.Name, err)
			continue
		}
		for _, d := range duels {
			verdict, err := a.Outcomes.CheckTolerant(c.Context, d)
			if err != nil {
				fmt.Fprintf(c.App.Writer, "  [%s] ERROR %s: %v\n", g.Name, d, err)
				continue
			}
			mark := "ok"
			if !verdict.Valid() {
				mark = "WRONG"
			}
			fmt.Fprintf(c.App.Writer, "  [%s] %-5s %s\n", g.Name, mark, verdict.Describe(d))
		}
	}
	return nil
}

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "publish the schedule or the results of a day",
		Flags: commonFlags(
			&cli.StringFlag{Name: "date", Usage: "day to publish, YYYY-mm-dd (today by default)"},
			&cli.BoolFlag{Name: "force-schedule", Usage: "publish the schedule even for a past day"},
			&cli.BoolFlag{Name: "dry-run", Usage: "print the messages instead of sending them"},
		),
		Action: func(c *cli.Context) error {
			a, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer a.Close()

			day, err := dayFlag(c, "date", a, 0)
			if err != nil {
				return err
			}
			force := c.Bool("force-schedule")
			if c.Bool("dry-run") {
				return printDigest(c.Context, c.App.Writer, a, day, force)
			}
			return a.PublishDay(c.Context, day, force)
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "print the daily messages of every day in a range",
		Flags: commonFlags(
			&cli.StringFlag{Name: "from", Required: true, Usage: "first day, YYYY-mm-dd"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "last day, YYYY-mm-dd"},
			&cli.BoolFlag{Name: "send", Usage: "also publish the messages for real"},
		),
		Action: func(c *cli.Context) error {
			a, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer a.Close()

			from, err := dayFlag(c, "from", a, 0)
			if err != nil {
				return err
			}
			to, err := dayFlag(c, "to", a, 0)
			if err != nil {
				return err
			}
			if to.Before(from) {
				return fmt.Errorf("--to %s is before --from %s", to.Format(dateLayout), from.Format(dateLayout))
			}

			for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
				previous := day.AddDate(0, 0, -1)
				if err := printDigest(c.Context, c.App.Writer, a, previous, false); err != nil {
					return err
				}
				if err := printDigest(c.Context, c.App.Writer, a, day, true); err != nil {
					return err
				}
				if !c.Bool("send") {
					continue
				}
				if err := a.PublishDay(c.Context, previous, false); err != nil {
					return err
				}
				if err := a.PublishDay(c.Context, day, true); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "list recent failing checks and unscheduled pairings",
		Flags: commonFlags(
			&cli.DurationFlag{Name: "since", Value: 7 * 24 * time.Hour, Usage: "how far back to look for failing checks"},
			&cli.IntFlag{Name: "limit", Value: 50, Usage: "maximum failing checks to list"},
		),
		Action: func(c *cli.Context) error {
			a, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer a.Close()

			w := c.App.Writer
			checks, err := a.Reviews.RecentFailures(c.Context, a.Clock.Now().Add(-c.Duration("since")), c.Int("limit"))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "failing checks: %d\n", len(checks))
			for _, check := range checks {
				fmt.Fprintf(w, "  %s [%s] %s %d - %d %s: %s (%s)\n",
					check.CheckedAt.In(a.Config.Location).Format("2006-01-02 15:04"),
					check.GroupName, check.P1Name, check.ClaimedP1, check.ClaimedP2, check.P2Name,
					check.Status, check.Detail)
			}

			unscheduled, err := a.Reviews.Unscheduled(c.Context, 0)
			if err != nil {
				return err
			}
			groups := make([]string, 0, len(unscheduled))
			for name := range unscheduled {
				groups = append(groups, name)
			}
			sort.Strings(groups)
			for _, name := range groups {
				fmt.Fprintf(w, "unscheduled in %s:\n", name)
				for _, pairing := range unscheduled[name] {
					fmt.Fprintf(w, "  %s - %s\n", pairing.P1.Name, pairing.P2.Name)
				}
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the daily jobs and the Telegram command bot",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			a, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer a.Close()

			shutdownTracing, err := observability.InitUptrace(a.Config, a.Logger)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := shutdownTracing(ctx); err != nil {
					a.Logger.Warn("shutdown tracing", "error", err)
				}
			}()

			stopProfiling, err := observability.InitPyroscope(a.Config, a.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := stopProfiling(); err != nil {
					a.Logger.Warn("stop profiler", "error", err)
				}
			}()

			scheduler, err := app.NewScheduler(c.Context, a.Config.Location, a.Logger, a.Jobs()...)
			if err != nil {
				return err
			}

			var wg conc.WaitGroup
			wg.Go(func() { scheduler.Run(c.Context) })
			if bot := a.Bot(); bot != nil {
				wg.Go(func() {
					if err := bot.Run(c.Context); err != nil {
						a.Logger.Error("telegram bot stopped", "error", err)
					}
				})
			}
			a.Logger.Info("duelbot serving", "jobs", scheduler.Entries())
			wg.Wait()
			a.Logger.Info("duelbot stopped")
			return nil
		},
	}
}

func botCommand() *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "answer Telegram commands only",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			a, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer a.Close()

			bot := a.Bot()
			if bot == nil {
				return fmt.Errorf("TELEGRAM_TOKEN is required to run the bot")
			}
			return bot.Run(c.Context)
		},
	}
}

// dayFlag parses a YYYY-mm-dd flag in the league time zone. Without a value
// it returns today shifted by offsetDays.
func dayFlag(c *cli.Context, name string, a *app.App, offsetDays int) (time.Time, error) {
	raw := strings.TrimSpace(c.String(name))
	if raw == "" {
		return a.Today().AddDate(0, 0, offsetDays), nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, a.Config.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return day, nil
}

func printDigest(ctx context.Context, w io.Writer, a *app.App, day time.Time, force bool) error {
	digest, err := a.Digests.Build(ctx, 0, day, force)
	if err != nil {
		return err
	}
	if digest.Empty() {
		fmt.Fprintf(w, "nothing to publish on %s\n\n", day.Format(dateLayout))
		return nil
	}
	rendered := a.Dispatcher.Render(digest)
	if len(rendered) == 0 {
		rendered = map[string][]string{"telegram": {a.Formatter.Format(digest)}}
	}

	names := make([]string, 0, len(rendered))
	for name := range rendered {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for i, msg := range rendered[name] {
			fmt.Fprintf(w, "%s msg %d, date %s, size %d\n", name, i, day.Format(dateLayout), len(msg))
			fmt.Fprintln(w, "*********************************************")
			fmt.Fprintln(w, msg)
			fmt.Fprintln(w, "*********************************************")
			fmt.Fprintln(w)
		}
	}
	return nil
}

func printReviews(w io.Writer, reviews []usecase.Review) {
	for _, review := range reviews {
		mark := "ok"
		if review.Failing() {
			mark = "WRONG"
		}
		fmt.Fprintf(w, "  [%s] %-5s %s\n", review.Group.Name, mark, review.Describe())
	}
}
