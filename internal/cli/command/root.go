package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rostertrace/internal/cli/connection"
	"github.com/yndnr/rostertrace/internal/cli/output"
	"github.com/yndnr/rostertrace/internal/infra/buildinfo"
)

// DefaultServer is the rostertrace-server address used when none is given.
const DefaultServer = "localhost:5080"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "rostertrace-cli",
		Usage:   "Explain how each player on a fantasy roster was acquired",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AcquisitionsCommand(),
			LineageCommand(),
			InvalidateCommand(),
			SystemCommand(),
		},
		Before: func(c *cli.Context) error {
			if _, err := output.ParseFormat(c.String("output")); err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "rostertrace-server address (e.g., localhost:5080)",
			EnvVars: []string{"ROSTERTRACE_SERVER"},
			Value:   DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			EnvVars: []string{"ROSTERTRACE_OUTPUT"},
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: connection.DefaultTimeout,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Output  output.Format
	Wide    bool
	Timeout time.Duration
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		format = output.FormatTable
	}
	return &GlobalFlags{
		Server:  c.String("server"),
		Output:  format,
		Wide:    c.Bool("wide"),
		Timeout: c.Duration("timeout"),
		Verbose: c.Bool("verbose"),
	}
}

// EnsureConnected returns an HTTP client for the configured server.
func EnsureConnected(c *cli.Context) *connection.HTTPClient {
	return connection.NewHTTPClient(ParseGlobalFlags(c).Server)
}

// requestContext derives the per-command context from --timeout.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if d := ParseGlobalFlags(c).Timeout; d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// render writes data in the selected format. table builds the table view;
// when nil, the table formatter derives one from data.
func render(c *cli.Context, data any, table func(wide bool) *output.Table) error {
	flags := ParseGlobalFlags(c)
	if flags.Output == output.FormatTable && table != nil {
		return (&output.TableFormatter{}).Format(stdout(c), table(flags.Wide))
	}
	return output.NewFormatter(flags.Output, flags.Wide).Format(stdout(c), data)
}

func stdout(c *cli.Context) io.Writer {
	if c.App != nil && c.App.Writer != nil {
		return c.App.Writer
	}
	return io.Discard
}

func stderr(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return io.Discard
}

// PrintError prints an error message to the app's error writer.
func PrintError(c *cli.Context, format string, args ...any) {
	fmt.Fprintf(stderr(c), "error: "+format+"\n", args...)
}

// verbosef prints to the error writer when --verbose is set.
func verbosef(c *cli.Context, format string, args ...any) {
	if ParseGlobalFlags(c).Verbose {
		fmt.Fprintf(stderr(c), format+"\n", args...)
	}
}
