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

// Package graphspec loads dependency graphs declared in YAML. Keys are
// plain strings and every binding produces a Value recording the key it was
// built for, so a declaration can be validated, planned and drawn without
// any Go types behind it.
//
//	root: CoffeeShop
//	components:
//	  - name: CoffeeShop
//	    scope: App
//	    entries: [maker]
//	    bindings:
//	      - key: heater
//	        scope: App
//	      - key: maker
//	        deps: [heater]
package graphspec

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// Multibinding kinds.
const (
	IntoSet = "set"
	IntoMap = "map"
)

// Reusable is the scope name of reusable bindings. Any other non-empty
// scope name is a singleton scope.
const Reusable = "reusable"

// Graph is a YAML graph declaration.
type Graph struct {
	// Root names the top-level component.
	Root       string      `yaml:"root" validate:"nonzero"`
	Components []Component `yaml:"components" validate:"min=1"`
}

// Component declares one component or subcomponent.
type Component struct {
	Name  string `yaml:"name" validate:"nonzero"`
	Scope string `yaml:"scope"`

	// Entries are the keys the component exposes. They are the roots of
	// the component's plan.
	Entries []string `yaml:"entries"`

	// Instances are keys supplied when the component is created.
	Instances []string `yaml:"instances"`

	// Subcomponents name other components in the same file.
	Subcomponents []string `yaml:"subcomponents"`

	Bindings []Binding `yaml:"bindings"`
}

// Binding declares how one key is built.
type Binding struct {
	Key   string   `yaml:"key" validate:"nonzero"`
	Scope string   `yaml:"scope"`
	Deps  []string `yaml:"deps"`

	// Fields are keys injected after the binding is built.
	Fields []string `yaml:"fields"`

	// Into makes the binding a contribution to a set or map multibinding.
	Into   string `yaml:"into" validate:"regexp=^(set|map)?$"`
	MapKey string `yaml:"mapKey"`

	// Declare marks an empty multibinding declaration.
	Declare bool `yaml:"declare"`
}

// Load reads a graph declaration and validates it.
func Load(r io.Reader) (*Graph, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "failed to read graph declaration")
	}

	g := &Graph{}
	if err := yaml.UnmarshalStrict(buf.Bytes(), g); err != nil {
		return nil, errors.Wrap(err, "failed to parse graph declaration")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadFile reads a graph declaration from the named file.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Load(f)
	return g, errors.Wrapf(err, "%s", path)
}

// Validate checks the declaration's struct constraints and the references
// between components.
func (g *Graph) Validate() error {
	if err := validator.Validate(g); err != nil {
		return errors.Wrap(err, "invalid graph declaration")
	}
	for _, c := range g.Components {
		if err := validator.Validate(c); err != nil {
			return errors.Wrap(err, "invalid graph declaration")
		}
		for _, b := range c.Bindings {
			if err := validator.Validate(b); err != nil {
				return errors.Wrapf(err, "invalid graph declaration: component %q", c.Name)
			}
		}
	}

	seen := make(map[string]struct{}, len(g.Components))
	for _, c := range g.Components {
		if _, ok := seen[c.Name]; ok {
			return errors.Errorf("component %q is declared twice", c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	if _, ok := seen[g.Root]; !ok {
		return errors.Errorf("root component %q is not declared", g.Root)
	}
	for _, c := range g.Components {
		for _, sub := range c.Subcomponents {
			if _, ok := seen[sub]; !ok {
				return errors.Errorf("component %q: unknown subcomponent %q", c.Name, sub)
			}
			if sub == c.Name {
				return errors.Errorf("component %q cannot be its own subcomponent", c.Name)
			}
		}
		for _, b := range c.Bindings {
			if err := b.validate(); err != nil {
				return errors.Wrapf(err, "component %q", c.Name)
			}
		}
	}
	return nil
}

func (b Binding) validate() error {
	switch {
	case b.Into == IntoMap && b.MapKey == "" && !b.Declare:
		return errors.Errorf("binding %q: map contribution needs a mapKey", b.Key)
	case b.Into != IntoMap && b.MapKey != "":
		return errors.Errorf("binding %q: mapKey is only valid with into: map", b.Key)
	case b.Declare && b.Into == "":
		return errors.Errorf("binding %q: declare is only valid for multibindings", b.Key)
	case b.Declare && (len(b.Deps) > 0 || len(b.Fields) > 0 || b.MapKey != ""):
		return errors.Errorf("binding %q: a multibinding declaration has no dependencies", b.Key)
	case len(b.Fields) > 0 && b.Into != "":
		return errors.Errorf("binding %q: contributions cannot declare injected fields", b.Key)
	}
	return nil
}

// Component returns the named component.
func (g *Graph) Component(name string) (Component, bool) {
	for _, c := range g.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}
