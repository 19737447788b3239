// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim

import (
	"github.com/db47h/dcsim/internal/pinspec"
)

// A Node is a wire joining an arbitrary set of pins. Its level is resolved
// every tick from the pins actively driving it.
//
type Node struct {
	b    *Builder
	a    *arena
	name string
	line int
}

// Name returns the node name.
//
func (n *Node) Name() string { return n.name }

// Connect connects the given pins to n. A pin can be connected to a single
// node or bus line.
//
func (n *Node) Connect(pins ...PinID) {
	for _, p := range pins {
		n.b.connect(n.name, n.line, p)
	}
}

// Pins returns the pins connected to n.
//
func (n *Node) Pins() Group {
	return append(Group(nil), n.a.lines[n.line].pins...)
}

// Level returns the level of n as resolved during the last completed tick.
//
func (n *Node) Level() Level {
	return n.a.lines[n.line].level
}

// A Bus is an N-bit aggregate of lines. Pin groups are attached to a bus
// bit-for-bit, and each line is resolved independently with the same rules
// as a Node. The resolved lines are packed into an integer value.
//
type Bus struct {
	b      *Builder
	a      *arena
	name   string
	width  int
	base   int
	groups []Group

	value uint64
	valid uint64
}

// Name returns the bus name.
//
func (b *Bus) Name() string { return b.name }

// Width returns the number of lines in b.
//
func (b *Bus) Width() int { return b.width }

// Attach attaches g to b, pin i of g being wired to line i of b.
// The group must not be wider than the bus.
//
func (b *Bus) Attach(g Group) { b.AttachAt(0, g) }

// AttachAt attaches g to b, pin i of g being wired to line offset+i of b.
//
func (b *Bus) AttachAt(offset int, g Group) {
	b.b.checkFrozen()
	switch {
	case len(g) == 0:
		b.b.errorf("bus %s: empty pin group", b.name)
		return
	case offset < 0 || offset+len(g) > b.width:
		b.b.errorf("bus %s: %d pin group at offset %d does not fit a %d bit bus", b.name, len(g), offset, b.width)
		return
	}
	for i, p := range g {
		b.b.connect(b.name, b.base+offset+i, p)
	}
	b.groups = append(b.groups, g)
}

// Groups returns the pin groups attached to b.
//
func (b *Bus) Groups() []Group {
	return append([]Group(nil), b.groups...)
}

// Value returns the packed value of b as resolved during the last completed
// tick. Bit i of valid is set if line i has a defined (Low or High) level;
// Floating and Undefined lines pack as 0.
//
func (b *Bus) Value() (value uint64, valid uint64) { return b.value, b.valid }

// Byte returns the low 8 bits of the packed value.
//
func (b *Bus) Byte() byte { return byte(b.value) }

// Bit returns the resolved level of line i.
//
func (b *Bus) Bit(i int) Level { return b.a.lines[b.base+i].level }

// Valid returns true if all lines of b have a defined level.
//
func (b *Bus) Valid() bool { return b.valid == mask(b.width) }

// Line returns the name of line i, e.g. "main[3]".
//
func (b *Bus) Line(i int) string { return pinspec.Index(b.name, i) }

func (b *Bus) pack() {
	var v, ok uint64
	for i := 0; i < b.width; i++ {
		switch b.a.lines[b.base+i].level {
		case High:
			v |= 1 << uint(i)
			ok |= 1 << uint(i)
		case Low:
			ok |= 1 << uint(i)
		}
	}
	b.value, b.valid = v, ok
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}
