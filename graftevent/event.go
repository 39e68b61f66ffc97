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

package graftevent

import (
	"time"
)

// Event defines an event emitted by graft.
type Event interface {
	event() // Only graft can implement this interface.
}

// Passing events by type to make Event hashable in the future.
func (*Provided) event()            {}
func (*Supplied) event()            {}
func (*ComponentBuilt) event()      {}
func (*SubcomponentCreated) event() {}
func (*Constructed) event()         {}
func (*CacheHit) event()            {}
func (*Injected) event()            {}
func (*ResolveFailed) event()       {}

// Provided is emitted when a binding is declared in a component, once per
// binding.
type Provided struct {
	// ConstructorName is the name of the constructor, provider or
	// multibinding contribution that was declared.
	ConstructorName string

	// ComponentName is the name of the component the binding belongs to.
	ComponentName string

	// ModuleName is the name of the module in which the binding was
	// declared, empty at the top level of a component.
	ModuleName string

	// OutputTypeName is the key produced by the binding.
	OutputTypeName string

	// Kind is the kind of binding, such as "provider" or "constructor".
	Kind string

	// Scope is the lifetime of the binding.
	Scope string

	// Err is non-nil if the binding could not be declared.
	Err error
}

// Supplied is emitted after an instance is bound to a component, either
// with graft.Supply or with graft.Instance.
type Supplied struct {
	// TypeName is the key of the supplied value.
	TypeName string

	ComponentName string
	ModuleName    string

	// Err is non-nil if the value could not be supplied.
	Err error
}

// ComponentBuilt is emitted after a root component has been validated.
type ComponentBuilt struct {
	ComponentName string

	// Scope is the singleton scope the component owns, empty if none.
	Scope string

	// Bindings is the number of keys declared by the component.
	Bindings int

	// Runtime is the time it took to validate the component.
	Runtime time.Duration

	// Err is non-nil if the component could not be built.
	Err error
}

// SubcomponentCreated is emitted when a subcomponent instance is created
// from a live parent.
type SubcomponentCreated struct {
	ComponentName string
	ParentName    string
	Scope         string

	Err error
}

// Constructed is emitted after a constructor ran.
type Constructed struct {
	// TypeName is the key of the constructed value.
	TypeName string
	Scope    string

	// Runtime is the time spent in the constructor and field injection.
	Runtime time.Duration

	Err error
}

// CacheHit is emitted when a scoped value is reused instead of being
// constructed.
type CacheHit struct {
	TypeName string
	Scope    string
}

// Injected is emitted after members of an object were injected.
type Injected struct {
	// TargetName is the type of the injected object.
	TargetName string

	// MemberTypeNames are the keys of the injected members.
	MemberTypeNames []string

	Err error
}

// ResolveFailed is emitted when a top-level request could not be
// satisfied.
type ResolveFailed struct {
	TypeName      string
	ComponentName string
	Err           error
}
