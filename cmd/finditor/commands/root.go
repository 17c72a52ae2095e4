/*
Package commands implements the finditor command line. The root command runs
a search; the version command prints build information.
*/
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sonemaro/finditor/cmd/finditor/app"
	"github.com/sonemaro/finditor/internal/config"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInterrupted = 130
)

// errUsage marks errors whose usage text was already printed.
var errUsage = errors.New("usage")

// Options holds command-line options that apply to all commands
type Options struct {
	ConfigPath string
	Stdout     io.Writer
	Stderr     io.Writer

	// App is passed through to app.New; tests use it to swap collaborators
	App app.Options
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	return run(args, &Options{Stdout: stdout, Stderr: stderr})
}

func run(args []string, opts *Options) int {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(normalizeArgs(args))

	err := cmd.Execute()
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, app.ErrInterrupted):
		return ExitInterrupted
	case errors.Is(err, errUsage):
		return ExitError
	default:
		fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		return ExitError
	}
}

// NewRootCommand creates the root command for the application
func NewRootCommand(opts *Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finditor -fn <name> [-p <path>] [-t threads] [--glob] [--regex] [--ignore-case] [--progress]",
		Short: "Parallel file name finder",
		Long: `finditor walks a directory tree with a pool of workers and prints the
path of every entry whose name matches the pattern.

Names are compared literally by default; --glob enables shell wildcards and
--regex a regular expression searched anywhere in the name. Every flag can
also be set through a FINDITOR_* environment variable or a YAML config file.`,
		Example: `  finditor -fn main.go -p ~/src
  finditor -fn '*.log' --glob --ignore-case -e /proc -e /sys -p /
  finditor -fn '^core\.[0-9]+$' --regex -o json -t 32
  finditor -fn go.mod -i node_modules -i .git -d 4 --progress`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts)
		},
	}
	rootCmd.SetOut(opts.Stdout)
	rootCmd.SetErr(opts.Stderr)

	flags := rootCmd.Flags()
	flags.String("fn", "", "name to search for (also accepted as -fn)")
	flags.StringP("path", "p", config.DefaultPath, "root directory of the search")
	flags.IntP("threads", "t", 0, "number of workers (default: number of CPUs)")
	flags.Bool("glob", false, "treat the name as a shell wildcard pattern")
	flags.Bool("regex", false, "treat the name as a regular expression (wins over --glob)")
	flags.Bool("ignore-case", false, "ASCII case-insensitive matching")
	flags.BoolP("follow-symlinks", "L", false, "descend into symbolic links to directories")
	flags.StringArrayP("exclude", "e", nil, "skip paths starting with this prefix (repeatable)")
	flags.StringArrayP("ignore", "i", nil, "skip entries whose name matches this glob (repeatable)")
	flags.IntP("max-depth", "d", config.UnlimitedDepth, "deepest directory level to list (-1 unlimited)")
	flags.Bool("progress", false, "show progress on stderr")
	flags.StringP("output", "o", "plain", "output format: plain|json|yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.CountP("verbose", "v", "verbose logging (repeat for more)")
	flags.String("log-format", "json", "log encoding: json|console")
	flags.Int("rate-limit", 0, "maximum directory listings per second (0 unlimited)")
	flags.Bool("exclusive", false, "refuse to run while another instance is running")
	flags.Bool("require-elevation", true, "refuse to run without administrator rights")
	flags.StringVar(&opts.ConfigPath, "config", "", "YAML config file")

	rootCmd.AddCommand(newVersionCommand(opts))

	return rootCmd
}

func runSearch(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load(cmd.Flags(), opts.ConfigPath)
	if errors.Is(err, config.ErrMissingPattern) {
		fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		fmt.Fprint(opts.Stderr, cmd.UsageString())
		return errUsage
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appOpts := opts.App
	appOpts.Stdout = opts.Stdout
	appOpts.Stderr = opts.Stderr

	application := app.New(cfg, appOpts)
	defer application.Shutdown()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = application.Run(ctx)
	return err
}

// normalizeArgs rewrites the single dash long flag -fn to --fn so pflag,
// which only allows single letter shorthands, accepts it. Arguments after
// "--" are left alone.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if arg == "-fn" || strings.HasPrefix(arg, "-fn=") {
			arg = "-" + arg
		}
		out = append(out, arg)
	}
	return out
}
