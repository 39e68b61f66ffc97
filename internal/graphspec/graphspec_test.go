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

package graphspec

import (
	"strings"
	"testing"

	"github.com/graftdi/graft/dig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadString(t *testing.T, s string) (*Graph, error) {
	t.Helper()
	return Load(strings.NewReader(s))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	g, err := LoadFile("testdata/coffee.yaml")
	require.NoError(t, err)
	assert.Equal(t, "CoffeeShop", g.Root)
	require.Len(t, g.Components, 2)

	activity, ok := g.Component("Activity")
	require.True(t, ok)
	assert.Equal(t, []string{"screen"}, activity.Instances)
	assert.Equal(t, "Activity", activity.Scope)

	_, ok = g.Component("Fragment")
	assert.False(t, ok)

	_, err = LoadFile("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		wantErr string
	}{
		{
			name:    "not yaml",
			give:    "root: [",
			wantErr: "failed to parse graph declaration",
		},
		{
			name:    "unknown field",
			give:    "root: A\nsomething: true\ncomponents: [{name: A}]",
			wantErr: "failed to parse graph declaration",
		},
		{
			name:    "no root",
			give:    "components: [{name: A}]",
			wantErr: "invalid graph declaration",
		},
		{
			name:    "no components",
			give:    "root: A",
			wantErr: "invalid graph declaration",
		},
		{
			name:    "unnamed component",
			give:    "root: A\ncomponents: [{name: A}, {scope: B}]",
			wantErr: "invalid graph declaration",
		},
		{
			name:    "binding without key",
			give:    "root: A\ncomponents: [{name: A, bindings: [{deps: [b]}]}]",
			wantErr: "invalid graph declaration",
		},
		{
			name:    "unknown multibinding",
			give:    "root: A\ncomponents: [{name: A, bindings: [{key: b, into: list}]}]",
			wantErr: "invalid graph declaration",
		},
		{
			name:    "undeclared root",
			give:    "root: B\ncomponents: [{name: A}]",
			wantErr: `root component "B" is not declared`,
		},
		{
			name:    "duplicate component",
			give:    "root: A\ncomponents: [{name: A}, {name: A}]",
			wantErr: `component "A" is declared twice`,
		},
		{
			name:    "unknown subcomponent",
			give:    "root: A\ncomponents: [{name: A, subcomponents: [B]}]",
			wantErr: `unknown subcomponent "B"`,
		},
		{
			name:    "own subcomponent",
			give:    "root: A\ncomponents: [{name: A, subcomponents: [A]}]",
			wantErr: "cannot be its own subcomponent",
		},
		{
			name:    "map contribution without key",
			give:    "root: A\ncomponents: [{name: A, bindings: [{key: b, into: map}]}]",
			wantErr: "needs a mapKey",
		},
		{
			name:    "map key on a set",
			give:    "root: A\ncomponents: [{name: A, bindings: [{key: b, into: set, mapKey: x}]}]",
			wantErr: "mapKey is only valid",
		},
		{
			name:    "declaration of a plain binding",
			give:    "root: A\ncomponents: [{name: A, bindings: [{key: b, declare: true}]}]",
			wantErr: "declare is only valid for multibindings",
		},
		{
			name:    "declaration with deps",
			give:    "root: A\ncomponents: [{name: A, bindings: [{key: b, into: set, declare: true, deps: [c]}]}]",
			wantErr: "has no dependencies",
		},
		{
			name:    "contribution with fields",
			give:    "root: A\ncomponents: [{name: A, bindings: [{key: b, into: set, fields: [c]}]}]",
			wantErr: "cannot declare injected fields",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadString(t, tt.give)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	g, err := LoadFile("testdata/coffee.yaml")
	require.NoError(t, err)

	root, err := g.Compile()
	require.NoError(t, err)
	assert.Equal(t, "CoffeeShop", root.Name())
	assert.Equal(t, "App", root.Registry.Scope())
	require.Len(t, root.Children, 1)

	activity, ok := root.Find("CoffeeShop/Activity")
	require.True(t, ok)
	assert.Equal(t, "CoffeeShop/Activity", activity.Name())
	assert.Same(t, root.Registry, activity.Registry.Parent())

	_, ok = root.Find("CoffeeShop/Fragment")
	assert.False(t, ok)
	_, ok = root.Find("Activity")
	assert.False(t, ok)

	var names []string
	require.NoError(t, root.Walk(func(i *Instance) error {
		names = append(names, i.Name())
		return nil
	}))
	assert.Equal(t, []string{"CoffeeShop", "CoffeeShop/Activity"}, names)

	t.Run("plan", func(t *testing.T) {
		plan, err := root.Plan()
		require.NoError(t, err)
		assert.Len(t, plan.Roots, 2)
		assert.Contains(t, plan.Keys(), root.Key("heater"))
	})

	t.Run("singletons", func(t *testing.T) {
		first, err := root.Resolve("maker")
		require.NoError(t, err)
		second, err := root.Resolve("maker")
		require.NoError(t, err)

		m1, m2 := first.(*Value), second.(*Value)
		assert.NotSame(t, m1, m2, "maker is unscoped")
		assert.Equal(t, "maker@CoffeeShop", m1.String())
		require.Len(t, m1.Deps, 2)
		assert.Same(t, m1.Deps[0], m2.Deps[0], "heater is an App singleton")

		require.Len(t, m1.Fields, 1)
		assert.Equal(t, "logger", m1.Fields[0].(*Value).Key)
	})

	t.Run("map multibinding", func(t *testing.T) {
		v, err := root.Resolve("activities")
		require.NoError(t, err)

		activities, ok := v.(map[string]*Value)
		require.True(t, ok, "got %T", v)
		assert.Len(t, activities, 2)
		assert.Contains(t, activities, "main")
		assert.Contains(t, activities, "settings")
	})

	t.Run("subcomponent", func(t *testing.T) {
		v, err := activity.Resolve("presenter")
		require.NoError(t, err)

		p := v.(*Value)
		require.Len(t, p.Deps, 2)
		screen := p.Deps[0].(*Value)
		assert.True(t, screen.Instance)
		assert.Equal(t, "Activity", screen.Component)

		again, err := activity.Resolve("presenter")
		require.NoError(t, err)
		assert.Same(t, p, again, "presenter is an Activity singleton")
	})

	t.Run("set multibinding", func(t *testing.T) {
		empty, err := root.Resolve("filters")
		require.NoError(t, err)
		assert.Empty(t, empty)

		v, err := activity.Resolve("filters")
		require.NoError(t, err)
		filters, ok := v.([]*Value)
		require.True(t, ok, "got %T", v)
		assert.Len(t, filters, 2)
	})
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		check   func(*testing.T, error)
		wantErr string
	}{
		{
			name: "missing binding",
			give: "root: A\ncomponents: [{name: A, entries: [b], bindings: [{key: b, deps: [c]}]}]",
			check: func(t *testing.T, err error) {
				var missing *dig.UnsatisfiedDependencyError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "c", missing.Key.Qualifier)
			},
		},
		{
			name: "cycle",
			give: "root: A\ncomponents: [{name: A, entries: [b], bindings: [{key: b, deps: [c]}, {key: c, deps: [b]}]}]",
			check: func(t *testing.T, err error) {
				var cycle *dig.CyclicDependencyError
				require.ErrorAs(t, err, &cycle)
			},
		},
		{
			name: "scope mismatch",
			give: "root: A\ncomponents: [{name: A, scope: App, entries: [b], bindings: [{key: b, scope: Activity}]}]",
			check: func(t *testing.T, err error) {
				var mismatch *dig.ScopeMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, "App", mismatch.RegistryScope)
			},
		},
		{
			name: "ambiguous",
			give: "root: A\ncomponents: [{name: A, bindings: [{key: b}, {key: b}]}]",
			check: func(t *testing.T, err error) {
				var ambiguous *dig.AmbiguousBindingError
				require.ErrorAs(t, err, &ambiguous)
			},
		},
		{
			name: "subcomponent error",
			give: "root: A\ncomponents: [{name: A, subcomponents: [B]}, {name: B, entries: [c]}]",
			check: func(t *testing.T, err error) {
				var missing *dig.UnsatisfiedDependencyError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "A/B", missing.Registry)
			},
		},
		{
			name:    "subcomponent cycle",
			give:    "root: A\ncomponents: [{name: A, subcomponents: [B]}, {name: B, subcomponents: [A]}]",
			wantErr: "subcomponent cycle: A -> B -> A",
		},
		{
			name:    "set and map",
			give:    "root: A\ncomponents: [{name: A, bindings: [{key: b, into: set}, {key: b, into: map, mapKey: x}]}]",
			wantErr: `key "b" is contributed to both a set and a map`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := loadString(t, tt.give)
			require.NoError(t, err)

			_, err = g.Compile()
			require.Error(t, err)
			if tt.check != nil {
				tt.check(t, err)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCompileWithObserver(t *testing.T) {
	t.Parallel()

	g, err := loadString(t, `
root: A
components:
  - name: A
    scope: App
    entries: [b]
    bindings:
      - key: b
        scope: App
`)
	require.NoError(t, err)

	obs := &recorder{}
	root, err := g.Compile(dig.WithObserver(obs))
	require.NoError(t, err)

	_, err = root.Resolve("b")
	require.NoError(t, err)
	_, err = root.Resolve("b")
	require.NoError(t, err)

	assert.Equal(t, 1, obs.constructed)
	assert.Equal(t, 1, obs.hits)
}
