package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rostertrace/internal/cli/connection"
	"github.com/yndnr/rostertrace/internal/cli/output"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Server status commands",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server liveness",
				Action: systemHealth,
			},
			{
				Name:   "ready",
				Usage:  "Check server readiness and its dependencies",
				Action: systemReady,
			},
			{
				Name:   "version",
				Usage:  "Show server build information",
				Action: systemVersion,
			},
		},
	}
}

type healthView struct {
	Status string            `json:"status"`
	Time   string            `json:"time,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

func systemHealth(c *cli.Context) error {
	client := EnsureConnected(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		PrintError(c, "health check failed: %v", err)
		return cli.Exit("server unreachable", 1)
	}

	var result healthView
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if ParseGlobalFlags(c).Output != output.FormatTable {
		return render(c, result, nil)
	}
	fmt.Fprintf(stdout(c), "✓ Server is %s\n", result.Status)
	fmt.Fprintf(stdout(c), "  Target: %s\n", client.BaseURL())
	return nil
}

func systemReady(c *cli.Context) error {
	client := EnsureConnected(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/ready")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result healthView
	err = connection.ParseResponse(resp, &result)
	var apiErr *connection.APIError
	notReady := errors.As(err, &apiErr) && apiErr.Status == 503
	if err != nil && !notReady {
		return err
	}
	if notReady {
		// The failing checks travel in the error envelope's details.
		if len(apiErr.Details) > 0 {
			_ = json.Unmarshal(apiErr.Details, &result)
		}
		result.Status = "not_ready"
	}

	if ParseGlobalFlags(c).Output != output.FormatTable {
		if err := render(c, result, nil); err != nil {
			return err
		}
	} else {
		mark := "✓"
		if notReady {
			mark = "✗"
		}
		fmt.Fprintf(stdout(c), "%s Server is %s\n", mark, result.Status)

		names := make([]string, 0, len(result.Checks))
		for name := range result.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(stdout(c), "  %-10s %s\n", name, result.Checks[name])
		}
	}

	if notReady {
		return cli.Exit("", 1)
	}
	return nil
}

type versionView struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time" table:"wide"`
	GoVersion string `json:"go_version" table:"wide"`
}

func systemVersion(c *cli.Context) error {
	client := EnsureConnected(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/version")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result versionView
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	return render(c, result, nil)
}
