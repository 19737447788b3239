// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim

import (
	"github.com/db47h/dcsim/internal/pinspec"
	"github.com/pkg/errors"
)

// A Socket allocates the pins of a single component and mounts that
// component into a Builder. Pin names are local to the socket; in the netlist
// they are prefixed by the component name, e.g. "mar.LE" or "mar.Q[3]".
//
// A part constructor typically looks like this:
//
//	func NewNot(b *dcsim.Builder, name string) *Not {
//		s := b.Socket(name)
//		g := &Not{name: name, In: s.Pin("In", dcsim.Input), Out: s.Pin("Out", dcsim.Output)}
//		s.Mount(g)
//		return g
//	}
//
type Socket struct {
	b       *Builder
	name    string
	owner   int
	m       map[string]PinID
	mounted bool
}

// Name returns the name of the component being built in this socket.
//
func (s *Socket) Name() string { return s.name }

// Pin allocates a new pin with the given local name and role.
//
func (s *Socket) Pin(name string, r Role) PinID {
	s.b.checkFrozen()
	if id, ok := s.m[name]; ok {
		s.b.errorf("%s: duplicate pin name %s", s.name, name)
		return id
	}
	id := s.b.a.allocPin(s.name+"."+name, s.owner, r)
	s.m[name] = id
	return id
}

// Group allocates width pins named name[0] to name[width-1] with the same
// role.
//
func (s *Socket) Group(name string, r Role, width int) Group {
	if width <= 0 {
		s.b.errorf("%s: invalid width %d for pin group %s", s.name, width, name)
		return nil
	}
	g := make(Group, width)
	for i := range g {
		g[i] = s.Pin(pinspec.Index(name, i), r)
	}
	return g
}

// Errorf records a configuration error for the component, like an invalid
// constructor parameter. The error is reported by Builder.Build.
//
func (s *Socket) Errorf(format string, args ...interface{}) {
	s.b.checkFrozen()
	s.b.errs = append(s.b.errs, errors.Wrap(errors.Errorf(format, args...), s.name))
}

// Lookup returns the pin allocated under the given local name.
//
func (s *Socket) Lookup(name string) (PinID, bool) {
	id, ok := s.m[name]
	return id, ok
}

// Mount registers c as the component owning the socket's pins. Components are
// evaluated in the order their sockets were created.
//
func (s *Socket) Mount(c Component) {
	s.b.checkFrozen()
	if s.mounted {
		s.b.errorf("%s: component mounted twice", s.name)
		return
	}
	s.mounted = true
	s.b.comps[s.owner] = c
}
