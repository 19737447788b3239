// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import "github.com/db47h/dcsim"

// Decoder is a binary to one-hot decoder with tri-state outputs.
//
//	Inputs: D[bits], OE
//	Outputs: Q[2^bits] (tri-state)
//	Function: if OE { Q[D] = 1, Q[i] = 0 for i != D } else { Q floats }
//
// Floating select bits read as 0.
//
type Decoder struct {
	name string
	D, Q dcsim.Group
	OE   dcsim.PinID
}

// NewDecoder3to8 returns a 3 to 8 lines decoder.
//
func NewDecoder3to8(b *dcsim.Builder, name string) *Decoder {
	return NewDecoder(b, name, 3)
}

// NewDecoder returns a decoder with bits select lines and 2^bits outputs.
//
func NewDecoder(b *dcsim.Builder, name string, bits int) *Decoder {
	s := b.Socket(name)
	n := 0
	if bits > 0 && bits <= 16 {
		n = 1 << uint(bits)
	} else {
		s.Errorf("invalid number of select lines: %d", bits)
	}
	d := &Decoder{
		name: name,
		D:    s.Group(pD, dcsim.Input, bits),
		Q:    s.Group(pQ, dcsim.TriState, n),
		OE:   s.Pin(pOE, dcsim.Input),
	}
	s.Mount(d)
	return d
}

// Name implements dcsim.Component.
//
func (d *Decoder) Name() string { return d.name }

// Evaluate implements dcsim.Component.
//
func (d *Decoder) Evaluate(s *dcsim.Simulation) {
	if !s.Get(d.OE).Bool() {
		s.ReleaseGroup(d.Q)
		return
	}
	sel, _ := s.GetGroup(d.D)
	for i, p := range d.Q {
		s.Set(p, dcsim.LevelOf(uint64(i) == sel))
	}
}
