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

package dig

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coffeeResolver(t *testing.T, c *counter, heaterScope Scope, opts ...ResolverOption) *Resolver {
	t.Helper()
	reg := mustRegistry(t, "CoffeeShop", nil, coffeeBindings(c, heaterScope), InScope("App"))
	return NewResolver(reg, NewCache("App", nil), opts...)
}

func resolveMaker(t *testing.T, r *Resolver) *CoffeeMaker {
	t.Helper()
	v, err := r.Resolve(makerKey)
	require.NoError(t, err)
	return v.(*CoffeeMaker)
}

func TestResolverScopes(t *testing.T) {
	t.Parallel()

	t.Run("singleton", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		r := coffeeResolver(t, c, Singleton("App"))

		first := resolveMaker(t, r)
		second := resolveMaker(t, r)

		assert.NotSame(t, first, second, "unscoped makers are distinct")
		assert.Same(t, first.heater, second.heater)
		assert.Same(t, first.heater, first.pump.heater)
		assert.Equal(t, 1, c.get(electricKey))
		assert.Equal(t, 2, c.get(makerKey))
		assert.Equal(t, 1, r.Cache().Len())

		first.heater.On()
		assert.True(t, second.heater.IsHot())
	})

	t.Run("unscoped", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		r := coffeeResolver(t, c, Unscoped)

		maker := resolveMaker(t, r)
		assert.NotSame(t, maker.heater, maker.pump.heater, "every edge gets its own instance")
		assert.Equal(t, 2, c.get(electricKey))
		assert.Zero(t, r.Cache().Len())
	})

	t.Run("reusable", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		r := coffeeResolver(t, c, Reusable)

		first := resolveMaker(t, r)
		assert.Same(t, first.heater, first.pump.heater, "shared within one resolution")

		second := resolveMaker(t, r)
		assert.NotSame(t, first.heater, second.heater, "not shared across resolutions")
		assert.Equal(t, 2, c.get(electricKey))
		assert.Zero(t, r.Cache().Len(), "reusable instances never reach the component cache")
	})
}

func TestResolverInstanceBinding(t *testing.T) {
	t.Parallel()

	nameKey := KeyFor[string]().Named("user")
	greetingKey := KeyFor[string]().Named("greeting")

	reg := mustRegistry(t, "Greeter", nil, []*Binding{
		{Kind: InstanceBinding, Key: nameKey, Value: "my-name"},
		{
			Kind: ProviderBinding,
			Key:  greetingKey,
			Deps: []Key{nameKey},
			Build: func(args []any) (any, error) {
				return "hello " + args[0].(string), nil
			},
		},
	})
	r := NewResolver(reg, NewCache("", nil))

	v, err := r.Resolve(nameKey)
	require.NoError(t, err)
	assert.Equal(t, "my-name", v)

	v, err = r.Resolve(greetingKey)
	require.NoError(t, err)
	assert.Equal(t, "hello my-name", v)
}

func TestResolverConstructionErrors(t *testing.T) {
	t.Parallel()

	t.Run("failure is not cached", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		reg := mustRegistry(t, "CoffeeShop", nil, []*Binding{{
			Kind:  ProviderBinding,
			Key:   electricKey,
			Scope: Singleton("App"),
			Build: func([]any) (any, error) {
				attempts++
				if attempts == 1 {
					return nil, errors.New("great sadness")
				}
				return &ElectricHeater{}, nil
			},
		}}, InScope("App"))
		r := NewResolver(reg, NewCache("App", nil))

		_, err := r.Resolve(electricKey)
		var failed *ConstructionError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, electricKey, failed.Key)
		assert.EqualError(t, failed.Cause, "great sadness")
		assert.False(t, IsStructural(err))

		first, err := r.Resolve(electricKey)
		require.NoError(t, err)
		second, err := r.Resolve(electricKey)
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, 2, attempts)
	})

	t.Run("dependency failure stops dependents", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		bindings := coffeeBindings(c, Singleton("App"))
		bindings[0].Build = func([]any) (any, error) {
			return nil, errors.New("no power")
		}
		reg := mustRegistry(t, "CoffeeShop", nil, bindings, InScope("App"))
		r := NewResolver(reg, NewCache("App", nil))

		_, err := r.Resolve(makerKey)
		var failed *ConstructionError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, electricKey, failed.Key, "the failing binding is reported, not the root")
		assert.Zero(t, c.get(makerKey))
		assert.Zero(t, c.get(pumpKey))
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()

		reg := mustRegistry(t, "CoffeeShop", nil, []*Binding{{
			Kind:  ProviderBinding,
			Key:   electricKey,
			Build: func([]any) (any, error) { panic("boom") },
		}})
		r := NewResolver(reg, NewCache("", nil))

		_, err := r.Resolve(electricKey)
		var failed *ConstructionError
		require.ErrorAs(t, err, &failed)
		assert.Contains(t, err.Error(), "panic: boom")
	})
}

type Espresso struct {
	Heater Heater
	Pump   *Thermosiphon
}

func espressoBinding(c *counter, injectErr error) *Binding {
	return &Binding{
		Kind:   ConstructorBinding,
		Key:    KeyFor[*Espresso](),
		Fields: []Key{heaterKey, pumpKey},
		Name:   "NewEspresso",
		Build: func([]any) (any, error) {
			c.inc(KeyFor[*Espresso]())
			return &Espresso{}, nil
		},
		Inject: func(instance any, values []any) error {
			if injectErr != nil {
				return injectErr
			}
			e := instance.(*Espresso)
			e.Heater = values[0].(Heater)
			e.Pump = values[1].(*Thermosiphon)
			return nil
		},
	}
}

func TestResolverFieldInjection(t *testing.T) {
	t.Parallel()

	t.Run("fields are set", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		bindings := append(coffeeBindings(c, Singleton("App")), espressoBinding(c, nil))
		reg := mustRegistry(t, "CoffeeShop", nil, bindings, InScope("App"))
		r := NewResolver(reg, NewCache("App", nil))

		plan, err := reg.Plan(KeyFor[*Espresso]())
		require.NoError(t, err)
		require.Len(t, plan.Roots[0].Fields, 2)

		v, err := r.Resolve(KeyFor[*Espresso]())
		require.NoError(t, err)
		e := v.(*Espresso)
		require.NotNil(t, e.Heater)
		require.NotNil(t, e.Pump)
		assert.Same(t, e.Heater, e.Pump.heater)
	})

	t.Run("missing field binding", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		reg := mustRegistry(t, "CoffeeShop", nil, []*Binding{espressoBinding(c, nil)})

		_, err := reg.Plan(KeyFor[*Espresso]())
		var missing *UnsatisfiedDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, heaterKey, missing.Key)
		assert.Equal(t, "NewEspresso", missing.Requester)
	})

	t.Run("injector failure", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		bindings := append(coffeeBindings(c, Singleton("App")), espressoBinding(c, errors.New("read-only")))
		reg := mustRegistry(t, "CoffeeShop", nil, bindings, InScope("App"))
		r := NewResolver(reg, NewCache("App", nil))

		_, err := r.Resolve(KeyFor[*Espresso]())
		var failed *ConstructionError
		require.ErrorAs(t, err, &failed)
		assert.Contains(t, err.Error(), "inject fields: read-only")
	})
}

func TestResolverInjectInto(t *testing.T) {
	t.Parallel()

	t.Run("members share reusable bindings", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		r := coffeeResolver(t, c, Reusable)

		var target Espresso
		err := r.InjectInto(
			Member{Key: heaterKey, Set: func(v any) error { target.Heater = v.(Heater); return nil }},
			Member{Key: pumpKey, Set: func(v any) error { target.Pump = v.(*Thermosiphon); return nil }},
		)
		require.NoError(t, err)
		assert.Same(t, target.Heater, target.Pump.heater)
		assert.Equal(t, 1, c.get(electricKey))
	})

	t.Run("all members are validated first", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		r := coffeeResolver(t, c, Singleton("App"))

		err := r.InjectInto(
			Member{Key: heaterKey, Set: func(any) error { return nil }},
			Member{Key: keyA, Set: func(any) error { return nil }},
		)
		var missing *UnsatisfiedDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, keyA, missing.Key)
		assert.Zero(t, c.get(electricKey), "nothing is constructed when a member is unsatisfied")
	})

	t.Run("assignment failure", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		r := coffeeResolver(t, c, Singleton("App"))

		err := r.InjectInto(Member{Key: heaterKey, Set: func(any) error { return errors.New("frozen") }})
		var failed *ConstructionError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, heaterKey, failed.Key)
	})
}

// activityBindings declare a pump per activity on top of an application
// heater.
func activityBindings(c *counter) (app, activity []*Binding) {
	app = []*Binding{
		provide(c, electricKey, Singleton("App"), nil, func([]any) any {
			return &ElectricHeater{}
		}),
		provide(c, heaterKey, Unscoped, []Key{electricKey}, func(args []any) any {
			return args[0].(*ElectricHeater)
		}),
	}
	activity = []*Binding{
		provide(c, pumpKey, Singleton("Activity"), []Key{heaterKey}, func(args []any) any {
			return &Thermosiphon{heater: args[0].(Heater)}
		}),
		provide(c, makerKey, Unscoped, []Key{heaterKey, pumpKey}, func(args []any) any {
			return &CoffeeMaker{heater: args[0].(Heater), pump: args[1].(*Thermosiphon)}
		}),
	}
	return app, activity
}

func TestResolverSubcomponents(t *testing.T) {
	t.Parallel()

	c := newCounter()
	appBindings, actBindings := activityBindings(c)
	appReg := mustRegistry(t, "App", nil, appBindings, InScope("App"))
	app := NewResolver(appReg, NewCache("App", nil))

	newActivity := func(name string) *Resolver {
		reg := mustRegistry(t, name, appReg, actBindings, InScope("Activity"))
		child, err := app.Child(reg, NewCache("Activity", app.Cache()))
		require.NoError(t, err)
		return child
	}
	first := newActivity("first")
	second := newActivity("second")

	m1 := resolveMaker(t, first)
	m2 := resolveMaker(t, first)
	m3 := resolveMaker(t, second)

	assert.Same(t, m1.pump, m2.pump, "one pump per activity")
	assert.NotSame(t, m1.pump, m3.pump, "sibling activities do not share their scope")
	assert.Same(t, m1.heater, m3.heater, "siblings share the application heater")
	assert.Equal(t, 1, c.get(electricKey))
	assert.Equal(t, 2, c.get(pumpKey))

	assert.Equal(t, 1, app.Cache().Len(), "the parent caches only its own scope")
	assert.Equal(t, 1, first.Cache().Len())

	_, err := app.Resolve(pumpKey)
	var missing *UnsatisfiedDependencyError
	require.ErrorAs(t, err, &missing, "parents cannot see subcomponent bindings")

	t.Run("parent mismatch", func(t *testing.T) {
		other := mustRegistry(t, "other", nil, nil, InScope("Activity"))
		_, err := app.Child(other, NewCache("Activity", app.Cache()))
		assert.ErrorIs(t, err, errParentMismatch)

		reg := mustRegistry(t, "third", appReg, nil, InScope("Activity"))
		_, err = app.Child(reg, NewCache("Activity", nil))
		assert.ErrorIs(t, err, errParentMismatch)
	})
}

func TestResolverMultibindings(t *testing.T) {
	t.Parallel()

	mapKey := KeyFor[map[string]int]()
	entry := func(k string, v int) *Binding {
		return &Binding{
			Kind:   ContributionBinding,
			Key:    mapKey,
			MapKey: k,
			Build:  func([]any) (any, error) { return v, nil },
		}
	}

	t.Run("map", func(t *testing.T) {
		t.Parallel()

		app := mustRegistry(t, "app", nil, []*Binding{entry("a", 1), entry("b", 2)})
		activity := mustRegistry(t, "activity", app, []*Binding{entry("c", 3)})

		appResolver := NewResolver(app, NewCache("", nil))
		child, err := appResolver.Child(activity, NewCache("", appResolver.Cache()))
		require.NoError(t, err)

		v, err := appResolver.Resolve(mapKey)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, v)

		v, err = child.Resolve(mapKey)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, v)
	})

	t.Run("set keeps declaration order", func(t *testing.T) {
		t.Parallel()

		c := newCounter()
		setKey := KeyFor[[]Heater]()
		bindings := append(coffeeBindings(c, Singleton("App")),
			&Binding{
				Kind:  ContributionBinding,
				Key:   setKey,
				Deps:  []Key{heaterKey},
				Build: func(args []any) (any, error) { return args[0], nil },
			},
			&Binding{
				Kind:  ContributionBinding,
				Key:   setKey,
				Scope: Singleton("App"),
				Build: func([]any) (any, error) { return &ElectricHeater{heating: true}, nil },
			},
			&Binding{
				Kind:  ContributionBinding,
				Key:   setKey,
				Scope: Singleton("App"),
				Build: func([]any) (any, error) { return &ElectricHeater{}, nil },
			},
		)
		reg := mustRegistry(t, "CoffeeShop", nil, bindings, InScope("App"))
		r := NewResolver(reg, NewCache("App", nil))

		v, err := r.Resolve(setKey)
		require.NoError(t, err)
		heaters := v.([]Heater)
		require.Len(t, heaters, 3)
		assert.False(t, heaters[0].IsHot())
		assert.True(t, heaters[1].IsHot())
		assert.NotSame(t, heaters[1], heaters[2], "scoped contributions are cached separately")

		again, err := r.Resolve(setKey)
		require.NoError(t, err)
		assert.Same(t, heaters[1], again.([]Heater)[1])
		assert.Same(t, heaters[2], again.([]Heater)[2])
	})

	t.Run("reusable contributions from parent and child", func(t *testing.T) {
		t.Parallel()

		setKey := KeyFor[[]string]()
		reusable := func(v string) *Binding {
			return &Binding{
				Kind:  ContributionBinding,
				Key:   setKey,
				Scope: Reusable,
				Build: func([]any) (any, error) { return v, nil },
			}
		}

		app := mustRegistry(t, "app", nil, []*Binding{reusable("app")})
		activity := mustRegistry(t, "activity", app, []*Binding{reusable("activity")})

		appResolver := NewResolver(app, NewCache("", nil))
		child, err := appResolver.Child(activity, NewCache("", appResolver.Cache()))
		require.NoError(t, err)

		v, err := child.Resolve(setKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"app", "activity"}, v)
	})

	t.Run("declared without contributions", func(t *testing.T) {
		t.Parallel()

		reg := mustRegistry(t, "app", nil, []*Binding{{Kind: MultibindingDeclaration, Key: mapKey}})
		r := NewResolver(reg, NewCache("", nil))

		v, err := r.Resolve(mapKey)
		require.NoError(t, err)
		assert.NotNil(t, v)
		assert.Empty(t, v)
	})

	t.Run("undeclared", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(mustRegistry(t, "app", nil, nil), NewCache("", nil))
		_, err := r.Resolve(mapKey)
		var missing *UnsatisfiedDependencyError
		require.ErrorAs(t, err, &missing)
	})
}

func TestResolverConcurrentSingleton(t *testing.T) {
	t.Parallel()

	c := newCounter()
	bindings := coffeeBindings(c, Singleton("App"))
	build := bindings[0].Build
	bindings[0].Build = func(args []any) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return build(args)
	}
	reg := mustRegistry(t, "CoffeeShop", nil, bindings, InScope("App"))
	r := NewResolver(reg, NewCache("App", nil))

	const goroutines = 32
	makers := make([]*CoffeeMaker, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := r.Resolve(makerKey)
			if assert.NoError(t, err) {
				makers[i] = v.(*CoffeeMaker)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, c.get(electricKey))
	for _, m := range makers {
		require.NotNil(t, m)
		assert.Same(t, makers[0].heater, m.heater)
	}
}

type observed struct {
	key   Key
	scope Scope
	err   error
}

type recordingObserver struct {
	mu          sync.Mutex
	constructed []observed
	hits        []Key
}

func (o *recordingObserver) Constructed(key Key, scope Scope, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.constructed = append(o.constructed, observed{key: key, scope: scope, err: err})
}

func (o *recordingObserver) CacheHit(key Key, _ Scope) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hits = append(o.hits, key)
}

func TestResolverObserver(t *testing.T) {
	t.Parallel()

	c := newCounter()
	o := &recordingObserver{}
	r := coffeeResolver(t, c, Singleton("App"), WithObserver(o))

	resolveMaker(t, r)

	var keys []Key
	for _, e := range o.constructed {
		keys = append(keys, e.key)
		assert.NoError(t, e.err)
	}
	assert.Equal(t, []Key{electricKey, heaterKey, heaterKey, pumpKey, makerKey}, keys)
	assert.Equal(t, []Key{electricKey}, o.hits, "the pump's heater hits the cache")
	assert.Equal(t, Singleton("App"), o.constructed[0].scope)

	child, err := r.Child(mustRegistry(t, "child", r.Registry(), nil), NewCache("", r.Cache()))
	require.NoError(t, err)
	_, err = child.Resolve(heaterKey)
	require.NoError(t, err)
	assert.Len(t, o.hits, 2, "children inherit the observer")
}
