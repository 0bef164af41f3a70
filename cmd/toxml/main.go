package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	pretty      int
	inputFormat string
	filter      string
	args        []string
	workers     int
	verify      bool
	each        bool
	logLevel    string
	color       string
	configFile  string
}

// usageError marks errors caused by bad flag values.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func newCommand(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer, code *int) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "toxml [OPTIONS] [FILE...]",
		Short: "Convert structured records into XML text.",
		Long: `Convert structured records into XML text.

Every record must describe elements: a record maps element names to rows
with exactly an "attributes" row and a "children" list. Children are
nested element records or plain values written as text.

Records are read from the given JSON or YAML files, or from standard
input. Several records become sibling elements of one document unless
--each is given.

Records passed through --filter lose their key order: rows come back
with keys sorted, which reorders attributes and sibling elements.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, files []string) error {
			c, err := run(ctx, cmd.Flags(), opts, argv, files, stdin, stdout, stderr)
			*code = c
			return err
		},
	}
	if argv == nil {
		// cobra falls back to os.Args for a nil slice.
		argv = []string{}
	}
	cmd.SetArgs(argv)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.IntVarP(&opts.pretty, "pretty", "p", 0, "Indent nested elements by this many spaces")
	flags.StringVar(&opts.inputFormat, "input-format", "auto", `Input format ("auto", "json", "yaml")`)
	flags.StringVarP(&opts.filter, "filter", "f", "", "Apply a jq program to every record before conversion; filtered rows list keys sorted, so attribute and element order is not kept")
	flags.StringArrayVar(&opts.args, "arg", nil, "Bind a jq variable as name=value (repeatable)")
	flags.IntVar(&opts.workers, "workers", 0, "Documents converted concurrently (default GOMAXPROCS)")
	flags.BoolVar(&opts.verify, "verify", false, "Warn when an output is not a single well-formed XML document")
	flags.BoolVar(&opts.each, "each", false, "Convert every record into its own document")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "warn", `Set the logging level ("debug", "info", "warn", "error")`)
	flags.StringVar(&opts.color, "color", "auto", `Colour diagnostics ("auto", "always", "never")`)
	flags.StringVar(&opts.configFile, "config", "", "Read default settings from this YAML file")

	return cmd
}

// runWithArgs executes the command and returns the process exit code.
func runWithArgs(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := newCommand(ctx, argv, stdin, stdout, stderr, &code)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) || code == exitOK {
			return exitUsage
		}
		return code
	}
	return code
}

func main() {
	os.Exit(runWithArgs(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
