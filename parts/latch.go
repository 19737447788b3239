// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import "github.com/db47h/dcsim"

// Latch is a transparent latch with tri-state outputs.
//
//	Inputs: D[width], LE, OE
//	Outputs: Q[width] (tri-state)
//	Function: if LE { value = D }
//	          if OE { Q = value } else { Q floats }
//
// The latch samples D on every tick LE is observed high. Floating D bits are
// stored as 0.
//
type Latch struct {
	name   string
	D, Q   dcsim.Group
	LE, OE dcsim.PinID
	value  uint64
}

// NewLatch returns a new latch.
//
func NewLatch(b *dcsim.Builder, name string, width int) *Latch {
	s := b.Socket(name)
	l := &Latch{
		name: name,
		D:    s.Group(pD, dcsim.Input, width),
		Q:    s.Group(pQ, dcsim.TriState, width),
		LE:   s.Pin("LE", dcsim.Input),
		OE:   s.Pin(pOE, dcsim.Input),
	}
	s.Mount(l)
	return l
}

// Name implements dcsim.Component.
//
func (l *Latch) Name() string { return l.name }

// Value returns the stored value.
//
func (l *Latch) Value() uint64 { return l.value }

// Evaluate implements dcsim.Component.
//
func (l *Latch) Evaluate(s *dcsim.Simulation) {
	if s.Get(l.LE).Bool() {
		l.value, _ = s.GetGroup(l.D)
	}
	if s.Get(l.OE).Bool() {
		s.SetGroup(l.Q, l.value)
	} else {
		s.ReleaseGroup(l.Q)
	}
}
