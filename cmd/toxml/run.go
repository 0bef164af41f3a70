package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/speakeasy-api/toxml"
	"github.com/speakeasy-api/toxml/pkg/config"
	"github.com/speakeasy-api/toxml/pkg/diag"
	"github.com/speakeasy-api/toxml/pkg/filter"
	"github.com/speakeasy-api/toxml/pkg/input"
	"github.com/speakeasy-api/toxml/value"
)

const (
	cliAnchor   = "<cli>"
	stdinAnchor = "<stdin>"
	commandName = "toxml"
)

// settings are the resolved options after merging the config file.
type settings struct {
	pretty   *int
	format   input.Format
	filter   string
	vars     map[string]any
	workers  int
	verify   bool
	each     bool
	logLevel toxml.LogLevel
	color    diag.ColorMode
}

func run(ctx context.Context, flags *pflag.FlagSet, opts options, argv, files []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	if opts.configFile != "" {
		file, err := config.Load(opts.configFile)
		if err != nil {
			return exitError, err
		}
		applyConfig(flags, &opts, file)
	}
	s, err := resolve(flags, opts)
	if err != nil {
		return exitUsage, err
	}

	log := toxml.NewLogger(s.logLevel, stderr)
	errFile, _ := stderr.(*os.File)
	color := diag.ColorEnabled(errFile, s.color)
	sources := input.NewSources()
	report := func(err error) {
		_ = diag.Render(stderr, err, sources, color)
	}
	callSite := callSiteTag(sources, argv)

	records, err := readRecords(sources, s.format, files, stdin, log)
	if err != nil {
		report(err)
		return exitError, nil
	}

	if s.filter != "" {
		sources.Add(filter.QueryAnchor, []byte(s.filter))
		prog, err := filter.Compile(s.filter, s.vars)
		if err != nil {
			report(err)
			return exitError, nil
		}
		log.Debugf("filter: %s", prog)
		if records, err = prog.Run(ctx, records); err != nil {
			report(err)
			return exitError, nil
		}
		log.Debugf("filter produced %d record(s)", len(records))
	}

	convOpts := toxml.Options{
		Pretty:  s.pretty,
		Workers: s.workers,
		Verify:  s.verify,
		Logger:  log,
	}
	var results []toxml.Result
	if s.each {
		results = toxml.ConvertRoots(ctx, callSite, records, convOpts)
	} else {
		results = toxml.Convert(ctx, callSite, records, convOpts)
	}

	code := exitOK
	for _, r := range results {
		if r.Err != nil {
			report(r.Err)
			code = exitError
			continue
		}
		if _, err := fmt.Fprintln(stdout, r.Value.DisplayString()); err != nil {
			return exitError, fmt.Errorf("writing output: %w", err)
		}
	}
	return code, nil
}

// applyConfig copies config file values into opts for every flag the user
// did not set explicitly.
func applyConfig(flags *pflag.FlagSet, opts *options, f *config.File) {
	if f.Pretty != nil && !flags.Changed("pretty") {
		opts.pretty = *f.Pretty
		_ = flags.Set("pretty", fmt.Sprint(*f.Pretty))
	}
	if f.Workers != nil && !flags.Changed("workers") {
		opts.workers = *f.Workers
	}
	if f.Verify != nil && !flags.Changed("verify") {
		opts.verify = *f.Verify
	}
	if f.Each != nil && !flags.Changed("each") {
		opts.each = *f.Each
	}
	if f.LogLevel != "" && !flags.Changed("log-level") {
		opts.logLevel = f.LogLevel
	}
	if f.InputFormat != "" && !flags.Changed("input-format") {
		opts.inputFormat = f.InputFormat
	}
	if f.Color != "" && !flags.Changed("color") {
		opts.color = f.Color
	}
	if f.Filter != "" && !flags.Changed("filter") {
		opts.filter = f.Filter
	}
}

func resolve(flags *pflag.FlagSet, opts options) (settings, error) {
	var s settings
	if flags.Changed("pretty") {
		if opts.pretty < 0 {
			return s, usagef("--pretty must not be negative, got %d", opts.pretty)
		}
		s.pretty = toxml.Indent(opts.pretty)
	}

	var err error
	if s.format, err = input.ParseFormat(opts.inputFormat); err != nil {
		return s, &usageError{err: err}
	}
	if s.color, err = diag.ParseColorMode(opts.color); err != nil {
		return s, &usageError{err: err}
	}
	level, ok := toxml.ParseLogLevel(opts.logLevel)
	if !ok {
		return s, usagef("unknown log level %q", opts.logLevel)
	}
	s.logLevel = level

	s.workers = toxml.DefaultOptions().Workers
	if opts.workers != 0 {
		if opts.workers < 0 {
			return s, usagef("--workers must be positive, got %d", opts.workers)
		}
		s.workers = opts.workers
	}

	s.vars = map[string]any{}
	for _, a := range opts.args {
		name, val, found := strings.Cut(a, "=")
		if !found || name == "" {
			return s, usagef("--arg wants name=value, got %q", a)
		}
		s.vars[name] = val
	}
	s.filter = opts.filter
	s.verify = opts.verify
	s.each = opts.each
	return s, nil
}

// callSiteTag registers the command line as a source and returns a tag
// covering the command name.
func callSiteTag(sources *input.Sources, argv []string) value.Tag {
	line := strings.Join(append([]string{commandName}, argv...), " ")
	sources.Add(cliAnchor, []byte(line))
	return value.NewTag(cliAnchor, 0, len(commandName))
}

func readRecords(sources *input.Sources, format input.Format, files []string, stdin io.Reader, log toxml.Logger) ([]value.Value, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	var records []value.Value
	for _, name := range files {
		src, err := readSource(sources, name, stdin)
		if err != nil {
			return nil, err
		}
		recs, err := input.Decode(src, format)
		if err != nil {
			return nil, err
		}
		log.With(map[string]any{"source": src.Name}).Debugf("decoded %d record(s)", len(recs))
		records = append(records, recs...)
	}
	return records, nil
}

func readSource(sources *input.Sources, name string, stdin io.Reader) (*input.Source, error) {
	if name == "-" {
		return sources.Read(stdinAnchor, stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sources.Read(name, f)
}
