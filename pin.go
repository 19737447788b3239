// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim

import (
	"github.com/db47h/dcsim/internal/pinspec"
	"github.com/pkg/errors"
)

// PinID is a stable handle to a pin. Pins live in a single arena owned by the
// netlist; components, nodes and buses only ever store PinIDs.
//
type PinID int32

// NoPin is the zero value for an unallocated pin handle.
//
const NoPin PinID = -1

// Group is an ordered, fixed length view of pins treated as a multi-bit signal
// (a PinGroup). Pin 0 is the least significant bit. A Group does not own its
// pins.
//
type Group []PinID

// Width returns the number of pins in g.
//
func (g Group) Width() int { return len(g) }

// Slice returns the sub-group g[lo:hi]. It panics if the bounds are out of
// range, like slicing does.
//
func (g Group) Slice(lo, hi int) Group { return g[lo:hi:hi] }

type pin struct {
	name    string
	owner   int // index of the owning component, -1 for free-standing pins
	role    Role
	level   Level
	enabled bool
	line    int // resolved line this pin is wired to, -1 if unconnected
}

// drive returns the level driven by p and whether p is actively driving its
// line.
//
func (p *pin) drive() (Level, bool) {
	switch p.role {
	case Ground:
		return Low, true
	case Source:
		return High, true
	case Output:
	case TriState, Bidirectional:
		if !p.enabled {
			return Floating, false
		}
	default:
		return Floating, false
	}
	if p.level == Floating {
		return Floating, false
	}
	return p.level, true
}

// line is a single resolved wire: a Node, or one bit of a Bus.
//
type line struct {
	net   string
	bit   int // -1 for nodes
	pins  []PinID
	level Level
}

func (l *line) String() string {
	if l.bit < 0 {
		return l.net
	}
	return pinspec.Index(l.net, l.bit)
}

// arena holds every pin and line of a netlist.
//
type arena struct {
	pins   []pin
	lines  []line
	byName map[string]PinID
}

func newArena() *arena {
	return &arena{byName: make(map[string]PinID)}
}

func (a *arena) valid(p PinID) bool {
	return p >= 0 && int(p) < len(a.pins)
}

func (a *arena) allocPin(name string, owner int, r Role) PinID {
	id := PinID(len(a.pins))
	a.pins = append(a.pins, pin{name: name, owner: owner, role: r, level: Floating, line: -1})
	a.byName[name] = id
	return id
}

func (a *arena) allocLines(net string, width int, bit bool) int {
	base := len(a.lines)
	for i := 0; i < width; i++ {
		l := line{net: net, bit: -1, level: Floating}
		if bit {
			l.bit = i
		}
		a.lines = append(a.lines, l)
	}
	return base
}

func (a *arena) pinName(p PinID) string {
	if !a.valid(p) {
		return "<invalid pin>"
	}
	return a.pins[p].name
}

// lookup resolves a pin spec like "mar.LE", "mar.Q[3]", "mar.Q[0..3]" or
// "mar.Q" (whole group) to a Group.
//
func (a *arena) lookup(spec string) (Group, error) {
	sp, err := pinspec.Parse(spec)
	if err != nil {
		return nil, err
	}
	if !sp.Ranged {
		if id, ok := a.byName[sp.Name]; ok {
			return Group{id}, nil
		}
		// whole group
		var g Group
		for i := 0; ; i++ {
			id, ok := a.byName[pinspec.Index(sp.Name, i)]
			if !ok {
				break
			}
			g = append(g, id)
		}
		if len(g) == 0 {
			return nil, errors.Errorf("pin %s does not exist", sp.Name)
		}
		return g, nil
	}
	names := sp.Names()
	g := make(Group, 0, len(names))
	for _, n := range names {
		id, ok := a.byName[n]
		if !ok {
			return nil, errors.Errorf("pin %s does not exist", n)
		}
		g = append(g, id)
	}
	return g, nil
}
