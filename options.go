package toxml

import "runtime"

// Options configures Convert.
type Options struct {
	// Pretty is the indentation width. Nil produces compact output.
	Pretty *int

	// Workers bounds how many roots are converted concurrently (default: GOMAXPROCS).
	Workers int

	// Verify re-parses every produced document and logs a warning when it is
	// not a single well-formed XML document (default: false).
	Verify bool

	// Logger receives per-root diagnostics (default: discards everything).
	Logger Logger
}

// DefaultOptions returns the default conversion settings.
func DefaultOptions() Options {
	return Options{
		Pretty:  nil,
		Workers: runtime.GOMAXPROCS(0),
		Verify:  false,
		Logger:  nil,
	}
}

// Indent returns a pretty-print width suitable for Options.Pretty.
func Indent(width int) *int {
	return &width
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o Options) logger() Logger {
	if o.Logger == nil {
		return newNoopLogger()
	}
	return o.Logger
}
