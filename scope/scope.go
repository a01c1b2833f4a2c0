// Package scope implements the chain of name bindings used by the framevm
// virtual machine.
//
// A Scope is one layer of bindings with an optional parent. Lookups walk the
// chain from the receiver outwards and the first binding found wins. Writes
// always go to the receiver. The outermost layer usually holds the built-in
// functions and is frozen: it can be read through any chain but never
// written.
package scope

import (
	"sort"

	"github.com/cloudcmds/framevm/errz"
	"github.com/cloudcmds/framevm/object"
)

// Scope is one layer of name bindings.
type Scope struct {
	name   string
	vars   map[string]object.Object
	parent *Scope
	frozen bool
}

// New returns an empty layer chained onto parent, which may be nil.
func New(name string, parent *Scope) *Scope {
	return &Scope{
		name:   name,
		vars:   map[string]object.Object{},
		parent: parent,
	}
}

// Frozen returns a read-only layer holding a copy of vars.
func Frozen(name string, vars map[string]object.Object) *Scope {
	s := New(name, nil)
	for k, v := range vars {
		s.vars[k] = v
	}
	s.frozen = true
	return s
}

// Name returns the layer name, used in diagnostics.
func (s *Scope) Name() string {
	return s.name
}

// Parent returns the next layer outwards, or nil.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsFrozen returns true if the layer rejects writes.
func (s *Scope) IsFrozen() bool {
	return s.frozen
}

// Child returns a new empty layer chained onto this one.
func (s *Scope) Child(name string) *Scope {
	return New(name, s)
}

// Get looks up name through the chain, innermost first.
func (s *Scope) Get(name string) (object.Object, bool) {
	for layer := s; layer != nil; layer = layer.parent {
		if value, ok := layer.vars[name]; ok {
			return value, true
		}
	}
	return nil, false
}

// Local looks up name in this layer only.
func (s *Scope) Local(name string) (object.Object, bool) {
	value, ok := s.vars[name]
	return value, ok
}

// Set binds name in this layer. Writing to a frozen layer breaks a VM
// invariant and panics with an internal error.
func (s *Scope) Set(name string, value object.Object) {
	if s.frozen {
		panic(errz.Internalf("write of %q to frozen scope %q", name, s.name))
	}
	s.vars[name] = value
}

// Names returns the names bound in this layer, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings in this layer.
func (s *Scope) Len() int {
	return len(s.vars)
}

// Depth returns the number of layers in the chain, including this one.
func (s *Scope) Depth() int {
	depth := 0
	for layer := s; layer != nil; layer = layer.parent {
		depth++
	}
	return depth
}
