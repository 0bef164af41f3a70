package toxml

import (
	"context"
	"errors"

	"github.com/speakeasy-api/toxml/value"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of converting one root value. Exactly one of
// Value and Err is set.
type Result struct {
	// Value is a string holding the document, tagged with the call site.
	Value value.Value
	Err   error
}

// Convert turns a sequence of pipeline records into XML documents.
//
// No records yield no results. A single record is converted on its own.
// Several records are wrapped into one table, tagged like the first
// record, and so produce one document with the records as siblings. That
// document has several top-level elements and is therefore not a
// well-formed XML document on its own.
//
// Roots are converted independently on up to opts.Workers goroutines and
// the results keep input order. A failing root yields an error result and
// never affects the others. Once ctx is done, roots that have not started
// yet report ctx.Err().
//
// Example:
//
//	results := toxml.Convert(ctx, callSite, records, toxml.Options{Pretty: toxml.Indent(2)})
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Print(r.Err)
//	        continue
//	    }
//	    fmt.Println(r.Value.DisplayString())
//	}
func Convert(ctx context.Context, callSite value.Tag, inputs []value.Value, opts ...Options) []Result {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	opt.logger().Debugf("normalizing %d record(s)", len(inputs))
	return ConvertRoots(ctx, callSite, normalizeRoots(inputs), opt)
}

// ConvertRoots converts every root into its own document, without the
// grouping Convert applies to several records.
func ConvertRoots(ctx context.Context, callSite value.Tag, roots []value.Value, opts ...Options) []Result {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	log := opt.logger()

	results := make([]Result, len(roots))
	if len(roots) == 0 {
		log.Debugf("no roots to convert")
		return results
	}
	log.Debugf("converting %d root(s)", len(roots))

	var g errgroup.Group
	g.SetLimit(opt.workers())
	for i, root := range roots {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = convertRoot(callSite, root, opt, log.With(map[string]any{"root": i}))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// normalizeRoots groups several records into a single table root.
func normalizeRoots(inputs []value.Value) []value.Value {
	switch len(inputs) {
	case 0:
		return nil
	case 1:
		return []value.Value{inputs[0]}
	default:
		items := make([]value.Value, len(inputs))
		copy(items, inputs)
		return []value.Value{value.NewTableValue(items, inputs[0].Tag)}
	}
}

func convertRoot(callSite value.Tag, root value.Value, opts Options, log Logger) Result {
	doc, err := Marshal(root, opts.Pretty)
	if err != nil {
		log.Errorf("conversion failed: %v", err)
		var encErr *EncodingError
		if errors.As(err, &encErr) {
			return Result{Err: err}
		}
		return Result{Err: &ConversionError{CallSite: callSite, Origin: root.Tag, Err: err}}
	}
	log.Debugf("converted bytes=%d", len(doc))

	if opts.Verify {
		if err := CheckWellFormed(doc); err != nil {
			log.Warnf("output is not a single well-formed XML document: %v", err)
		}
	}
	return Result{Value: value.String(doc, callSite)}
}
