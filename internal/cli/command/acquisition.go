package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rostertrace/internal/cli/output"
)

// AcquisitionsCommand returns the acquisitions command.
func AcquisitionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "acquisitions",
		Aliases:   []string{"acq"},
		Usage:     "Show how each player on an owner's roster was acquired",
		ArgsUsage: "LEAGUE_ID OWNER_ID",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "refresh",
				Aliases: []string{"r"},
				Usage:   "Bypass the server cache",
			},
			&cli.BoolFlag{
				Name:  "diagnostics",
				Usage: "Include lineage and fallback diagnostics",
			},
		}, backendFlags()...),
		Action: acquisitions,
	}
}

// LineageCommand returns the lineage command.
func LineageCommand() *cli.Command {
	return &cli.Command{
		Name:      "lineage",
		Usage:     "Show the season chain of a league, oldest first",
		ArgsUsage: "LEAGUE_ID",
		Flags:     backendFlags(),
		Action:    lineage,
	}
}

// InvalidateCommand returns the invalidate command.
func InvalidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "invalidate",
		Usage:     "Drop the server's cached resolution for an owner",
		ArgsUsage: "LEAGUE_ID OWNER_ID",
		Action:    invalidate,
	}
}

func requireArgs(c *cli.Context, names ...string) ([]string, error) {
	if c.NArg() != len(names) {
		return nil, cli.Exit(fmt.Sprintf("usage: %s %s", c.Command.Name, c.Command.ArgsUsage), 2)
	}
	args := c.Args().Slice()
	for i, a := range args {
		if a == "" {
			return nil, cli.Exit(names[i]+" must not be empty", 2)
		}
	}
	return args, nil
}

func acquisitions(c *cli.Context) error {
	args, err := requireArgs(c, "LEAGUE_ID", "OWNER_ID")
	if err != nil {
		return err
	}

	b, err := newBackend(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := b.Acquisitions(ctx, args[0], args[1], c.Bool("refresh"), c.Bool("diagnostics"))
	if err != nil {
		return err
	}

	if view.Cached {
		verbosef(c, "served from cache")
	}
	if d := view.Diagnostics; d != nil {
		verbosef(c, "seasons=%d earliest=%s startup_draft=%s fallback=%s (%d players)",
			len(d.Lineage), d.EarliestSeason, d.StartupDraftID, d.FallbackReason, d.FallbackCount)
		if d.Degraded {
			fmt.Fprintln(stderr(c), "warning: some league history could not be fetched; the result may be incomplete")
		}
	}

	return render(c, view, func(wide bool) *output.Table {
		return acquisitionsTable(view, wide)
	})
}

func acquisitionsTable(view *AcquisitionsView, wide bool) *output.Table {
	t := &output.Table{}
	if wide {
		t.SetHeaders("PLAYER", "KIND", "DETAIL", "ACQUIRED_AT")
	} else {
		t.SetHeaders("PLAYER", "KIND", "DETAIL")
	}

	for id, rec := range view.Acquisitions {
		detail := rec.Detail
		if detail == "" {
			detail = "-"
		}
		row := []string{id, string(rec.Kind), detail}
		if wide {
			row = append(row, formatMillis(rec.AcquiredAt))
		}
		t.AddRow(row...)
	}
	t.SortBy(0)
	return t
}

func formatMillis(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return time.UnixMilli(*ms).UTC().Format(time.RFC3339)
}

func lineage(c *cli.Context) error {
	args, err := requireArgs(c, "LEAGUE_ID")
	if err != nil {
		return err
	}

	b, err := newBackend(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := b.Lineage(ctx, args[0])
	if err != nil {
		return err
	}

	return render(c, view, func(wide bool) *output.Table {
		t := &output.Table{}
		t.SetHeaders("SEASON", "LEAGUE_ID", "TEAMS", "PREVIOUS_LEAGUE_ID")
		for _, n := range view.Seasons {
			teams := "-"
			if n.TotalTeams > 0 {
				teams = strconv.Itoa(n.TotalTeams)
			}
			prev := n.PreviousLeagueID
			if prev == "" {
				prev = "-"
			}
			t.AddRow(n.Season, n.LeagueID, teams, prev)
		}
		return t
	})
}

func invalidate(c *cli.Context) error {
	args, err := requireArgs(c, "LEAGUE_ID", "OWNER_ID")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	b := &remoteBackend{client: EnsureConnected(c)}
	view, err := b.Invalidate(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if ParseGlobalFlags(c).Output == output.FormatTable {
		fmt.Fprintf(stdout(c), "Invalidated cached acquisitions for owner %s in league %s\n", view.OwnerID, view.LeagueID)
		return nil
	}
	return render(c, view, nil)
}
