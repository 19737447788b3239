// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import "github.com/db47h/dcsim"

// Buffer is a tri-state bus buffer.
//
//	Inputs: D[width], OE
//	Outputs: Q[width] (tri-state)
//	Function: if OE { Q = D } else { Q floats }
//
// Floating input bits are passed through as floating outputs.
//
type Buffer struct {
	name string
	D, Q dcsim.Group
	OE   dcsim.PinID
}

// NewBuffer returns a new tri-state buffer.
//
func NewBuffer(b *dcsim.Builder, name string, width int) *Buffer {
	s := b.Socket(name)
	buf := &Buffer{
		name: name,
		D:    s.Group(pD, dcsim.Input, width),
		Q:    s.Group(pQ, dcsim.TriState, width),
		OE:   s.Pin(pOE, dcsim.Input),
	}
	s.Mount(buf)
	return buf
}

// Name implements dcsim.Component.
//
func (b *Buffer) Name() string { return b.name }

// Evaluate implements dcsim.Component.
//
func (b *Buffer) Evaluate(s *dcsim.Simulation) {
	if !s.Get(b.OE).Bool() {
		s.ReleaseGroup(b.Q)
		return
	}
	for i, p := range b.Q {
		s.Set(p, s.Get(b.D[i]))
	}
}
