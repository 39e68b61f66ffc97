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

package graft

import (
	"fmt"
	"strings"

	"github.com/graftdi/graft/internal/graftreflect"
)

// An Option configures a component definition. Options are passed to
// NewComponent and Module.
type Option interface {
	fmt.Stringer

	apply(*module)
}

// Options converts a collection of Options into a single Option. This
// allows packages to bundle sophisticated functionality into easy-to-use
// graft modules without naming them.
func Options(opts ...Option) Option {
	return optionGroup(opts)
}

type optionGroup []Option

func (og optionGroup) apply(mod *module) {
	for _, opt := range og {
		opt.apply(mod)
	}
}

func (og optionGroup) String() string {
	items := make([]string, len(og))
	for i, opt := range og {
		items[i] = fmt.Sprint(opt)
	}
	return fmt.Sprintf("graft.Options(%s)", strings.Join(items, ", "))
}

// Error registers any number of errors with the component definition,
// short-circuiting Build. It's often used to bundle declaration-time
// errors into a module:
//
//	func Heaters(kind string) graft.Option {
//		switch kind {
//		case "electric":
//			return graft.Provide(NewElectricHeater)
//		case "fire":
//			return graft.Provide(NewFireHeater)
//		}
//		return graft.Error(fmt.Errorf("unknown heater %q", kind))
//	}
func Error(errs ...error) Option {
	return errorOption{
		errs:  errs,
		stack: graftreflect.CallerStack(1, 0),
	}
}

type errorOption struct {
	errs  []error
	stack graftreflect.Stack
}

func (eo errorOption) apply(mod *module) {
	for _, err := range eo.errs {
		if err != nil {
			mod.fail(fmt.Errorf("graft.Error from:\n%+vFailed: %w", eo.stack, err))
		}
	}
}

func (eo errorOption) String() string {
	items := make([]string, len(eo.errs))
	for i, err := range eo.errs {
		items[i] = err.Error()
	}
	return fmt.Sprintf("graft.Error(%v)", strings.Join(items, ", "))
}
