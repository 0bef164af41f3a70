//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/speakeasy-api/toxml"
	"github.com/speakeasy-api/toxml/pkg/diag"
	"github.com/speakeasy-api/toxml/pkg/filter"
	"github.com/speakeasy-api/toxml/pkg/input"
	"github.com/speakeasy-api/toxml/value"
)

const inputAnchor = "<input>"

// ToXML converts the JSON or YAML records in text. A negative pretty width
// produces compact output. A non-empty query is applied to every record
// first. Failures are returned as rendered diagnostics.
func ToXML(text string, pretty int, query string) (string, error) {
	ctx := context.Background()
	sources := input.NewSources()
	src := sources.Add(inputAnchor, []byte(text))
	fail := func(err error) (string, error) {
		var b strings.Builder
		_ = diag.Render(&b, err, sources, false)
		return "", fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
	}

	records, err := input.Decode(src, input.FormatAuto)
	if err != nil {
		return fail(err)
	}
	if query != "" {
		sources.Add(filter.QueryAnchor, []byte(query))
		if records, err = filter.Apply(ctx, query, records); err != nil {
			return fail(err)
		}
	}

	opts := toxml.DefaultOptions()
	if pretty >= 0 {
		opts.Pretty = toxml.Indent(pretty)
	}
	callSite := value.NewTag(inputAnchor, 0, len(text))

	var docs []string
	for _, r := range toxml.Convert(ctx, callSite, records, opts) {
		if r.Err != nil {
			return fail(r.Err)
		}
		docs = append(docs, r.Value.DisplayString())
	}
	return strings.Join(docs, "\n"), nil
}

// promisify wraps a Go function to return a JavaScript Promise
func promisify(fn func(args []js.Value) (string, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) any {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			go func() {
				result, err := fn(args)
				if err != nil {
					reject.Invoke(js.Global().Get("Error").New(err.Error()))
					return
				}
				resolve.Invoke(result)
			}()

			// The handler of a Promise doesn't return any value
			return nil
		})

		return js.Global().Get("Promise").New(handler)
	})
}

func main() {
	js.Global().Set("ToXML", promisify(func(args []js.Value) (string, error) {
		if len(args) < 1 || len(args) > 3 {
			return "", fmt.Errorf("ToXML: expected 1 to 3 args (input, pretty, query), got %v", len(args))
		}
		pretty := -1
		if len(args) > 1 && args[1].Type() == js.TypeNumber {
			pretty = args[1].Int()
		}
		query := ""
		if len(args) > 2 && args[2].Type() == js.TypeString {
			query = args[2].String()
		}
		return ToXML(args[0].String(), pretty, query)
	}))

	// Keep the program running
	<-make(chan bool)
}
