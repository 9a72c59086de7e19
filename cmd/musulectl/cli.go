package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/services"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

type cliDeps struct {
	plans     *services.PlanService
	summaries *services.SummaryService
	loc       *time.Location
	now       func() time.Time
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps cliDeps, out io.Writer) *cli.App {
	app := &cli.App{
		Name:   "musulectl",
		Usage:  "Inspect and maintain weekly workout plans",
		Writer: out,
		Commands: []*cli.Command{
			weekCmd(deps),
			weeksCmd(deps),
			showCmd(deps),
			summaryCmd(deps),
			statusCmd(deps),
			cleanupCmd(deps),
		},
	}
	// Errors are returned to the caller instead of exiting the process.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func weekCmd(deps cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "week",
		Usage: "Print the current week (or the week of --date) and its range",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Calendar date YYYY-MM-DD"},
		},
		Action: func(c *cli.Context) error {
			id := week.Current(deps.now(), deps.loc)
			if d := c.String("date"); d != "" {
				t, err := time.Parse(time.DateOnly, d)
				if err != nil {
					return outputError(fmt.Errorf("invalid date %q (must be YYYY-MM-DD)", d))
				}
				id = week.Of(t)
			}

			r, err := week.Dates(id)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, map[string]string{
				"week":      id,
				"startDate": r.StartDate(),
				"endDate":   r.EndDate(),
			})
		},
	}
}

func weeksCmd(deps cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "weeks",
		Usage: "List every week with a stored plan",
		Action: func(c *cli.Context) error {
			weeks, err := deps.plans.ListWeeks(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, weeks)
		},
	}
}

func showCmd(deps cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the stored plan of a week",
		ArgsUsage: "<week>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.New("usage: musulectl show <week>"))
			}

			plan, err := deps.plans.Get(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			if plan == nil {
				return outputError(fmt.Errorf("%w: %s", domain.ErrPlanNotFound, c.Args().First()))
			}
			return outputJSON(c.App.Writer, plan)
		},
	}
}

func summaryCmd(deps cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Print the summary of a week",
		ArgsUsage: "<week>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "Output format: markdown|json|html"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.New("usage: musulectl summary <week>"))
			}
			weekID := c.Args().First()

			switch c.String("format") {
			case "json":
				s, err := deps.summaries.Get(c.Context, weekID)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c.App.Writer, s)
			case "markdown":
				md, err := deps.summaries.Markdown(c.Context, weekID)
				if err != nil {
					return outputError(err)
				}
				_, err = io.WriteString(c.App.Writer, md)
				return err
			case "html":
				html, err := deps.summaries.HTML(c.Context, weekID)
				if err != nil {
					return outputError(err)
				}
				_, err = io.WriteString(c.App.Writer, html)
				return err
			default:
				return outputError(fmt.Errorf("unknown format %q (must be markdown, json, or html)", c.String("format")))
			}
		},
	}
}

func statusCmd(deps cliDeps) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Set the status of a workout item",
		ArgsUsage: "<week> <itemId> <pending|done|missed>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return outputError(errors.New("usage: musulectl status <week> <itemId> <pending|done|missed>"))
			}

			status, err := domain.ParseStatus(c.Args().Get(2))
			if err != nil {
				return outputError(err)
			}

			plan, err := deps.plans.UpdateStatus(c.Context, c.Args().Get(0), c.Args().Get(1), status)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, plan)
		},
	}
}

func cleanupCmd(deps cliDeps) *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Delete plans older than the retention window",
		Action: func(c *cli.Context) error {
			removed, err := deps.plans.CleanupOld(c.Context, deps.now())
			if err != nil {
				return outputError(err)
			}
			if removed == nil {
				removed = []string{}
			}
			return outputJSON(c.App.Writer, map[string]any{"removed": removed})
		},
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputError(err error) error {
	return cli.Exit(err.Error(), 1)
}
