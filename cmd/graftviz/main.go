// Copyright (c) 2022 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// graftviz validates a YAML dependency graph declaration and draws the
// construction plan of one of its components.
//
//	graftviz -f coffee.yaml -component CoffeeShop/Activity -format svg -open
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-graphviz"
	"github.com/graftdi/graft/dig"
	"github.com/graftdi/graft/internal/graphspec"
	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	formatPlan = "plan"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
)

type options struct {
	File      string
	Output    string
	Format    string
	Component string
	Resolve   bool
	Open      bool
	Verbose   bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	flags := flag.NewFlagSet("graftviz", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.File, "f", "", "YAML graph declaration to load")
	flags.StringVar(&opts.Output, "o", "", "write the rendering to this file instead of stdout")
	flags.StringVar(&opts.Format, "format", formatDOT, "output format: plan, dot, svg or png")
	flags.StringVar(&opts.Component, "component", "",
		`component to draw, as a path from the root such as "App/Activity"; defaults to the root`)
	flags.BoolVar(&opts.Resolve, "resolve", false, "construct every entry of the component")
	flags.BoolVar(&opts.Open, "open", false, "open the rendering in a browser")
	flags.BoolVar(&opts.Verbose, "v", false, "log at debug level")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if opts.File == "" {
		return nil, errors.New("no graph declaration: use -f")
	}
	switch opts.Format {
	case formatPlan, formatDOT, formatSVG, formatPNG:
	default:
		return nil, errors.Errorf("unknown format %q", opts.Format)
	}
	return opts, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	log, err := newLogger(opts.Verbose)
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	defer log.Sync()

	return (&cli{opts: opts, log: log, stdout: stdout, open: browser.OpenFile}).run()
}

type cli struct {
	opts   *options
	log    *zap.Logger
	stdout io.Writer
	open   func(path string) error
}

func (c *cli) run() error {
	g, err := graphspec.LoadFile(c.opts.File)
	if err != nil {
		return err
	}
	c.log.Debug("loaded graph declaration",
		zap.String("file", c.opts.File),
		zap.String("root", g.Root),
		zap.Int("components", len(g.Components)))

	root, err := g.Compile(dig.WithObserver(&observer{log: c.log}))
	if err != nil {
		for _, e := range multierr.Errors(err) {
			c.log.Error("invalid graph", zap.Error(e))
		}
		return errors.Errorf("%s: %d error(s) in graph declaration", c.opts.File, len(multierr.Errors(err)))
	}

	inst := root
	if c.opts.Component != "" {
		var ok bool
		if inst, ok = root.Find(c.opts.Component); !ok {
			return errors.Errorf("no component at %q", c.opts.Component)
		}
	}

	plan, err := inst.Plan()
	if err != nil {
		return err
	}
	c.log.Info("planned component",
		zap.String("component", inst.Name()),
		zap.Int("bindings", plan.Len()))

	if c.opts.Resolve {
		if err := c.resolve(inst); err != nil {
			return err
		}
	}

	out, err := c.render(plan)
	if err != nil {
		return err
	}
	return c.write(out)
}

func (c *cli) resolve(inst *graphspec.Instance) error {
	for _, entry := range inst.Component.Entries {
		v, err := inst.Resolve(entry)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %q", entry)
		}
		c.log.Info("resolved entry",
			zap.String("component", inst.Name()),
			zap.String("entry", entry),
			zap.String("value", fmt.Sprint(v)))
	}
	return nil
}

func (c *cli) render(plan *dig.Plan) ([]byte, error) {
	var dot bytes.Buffer
	if c.opts.Format == formatPlan {
		writePlan(&dot, plan)
		return dot.Bytes(), nil
	}

	if err := dig.Visualize(plan, &dot); err != nil {
		return nil, err
	}
	if c.opts.Format == formatDOT {
		return dot.Bytes(), nil
	}

	graph, err := graphviz.ParseBytes(dot.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse DOT output")
	}
	defer graph.Close()

	gv := graphviz.New()
	defer gv.Close()

	var out bytes.Buffer
	if err := gv.Render(graph, graphviz.Format(c.opts.Format), &out); err != nil {
		return nil, errors.Wrapf(err, "failed to render %s", c.opts.Format)
	}
	return out.Bytes(), nil
}

func (c *cli) write(out []byte) error {
	path := c.opts.Output
	if path == "" && c.opts.Open {
		f, err := os.CreateTemp("", "graftviz-*."+c.opts.Format)
		if err != nil {
			return err
		}
		path = f.Name()
		if err := f.Close(); err != nil {
			return err
		}
	}

	if path == "" {
		_, err := c.stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	c.log.Info("wrote rendering", zap.String("path", path))

	if c.opts.Open {
		return c.open(path)
	}
	return nil
}

// writePlan lists the plan in construction order.
func writePlan(w io.Writer, plan *dig.Plan) {
	for i, n := range plan.Order {
		fmt.Fprintf(w, "%d. %v (%v, %v) in %q\n", i+1, n.Key(), n.Binding.Kind, n.Binding.Scope, n.Owner.Name())
		for _, dep := range n.Deps {
			fmt.Fprintf(w, "\t<- %v\n", dep.Key())
		}
		for _, dep := range n.Fields {
			fmt.Fprintf(w, "\t<~ %v\n", dep.Key())
		}
	}
}

// observer logs constructions while entries are resolved.
type observer struct {
	log *zap.Logger
}

func (o *observer) Constructed(k dig.Key, s dig.Scope, runtime time.Duration, err error) {
	fields := []zap.Field{
		zap.Stringer("key", k),
		zap.Stringer("scope", s),
		zap.Duration("runtime", runtime),
	}
	if err != nil {
		o.log.Error("construction failed", append(fields, zap.Error(err))...)
		return
	}
	o.log.Debug("constructed", fields...)
}

func (o *observer) CacheHit(k dig.Key, s dig.Scope) {
	o.log.Debug("cache hit", zap.Stringer("key", k), zap.Stringer("scope", s))
}
