// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package parts provides a library of reusable components for dcsim: logic
// gates, tri-state buffers, latches, counters, a clock, decoders and memory
// chips.
//
// Unless stated otherwise, control inputs are active high. Since floating
// lines read as Low, active low inputs of a part (like a counter's CLR) must
// be tied to a source node to be disabled. Memory strobes are the exception:
// they must be driven low to be asserted.
//
package parts

import (
	"github.com/db47h/dcsim"
)

// common pin names
const (
	pIn  = "In"
	pIn1 = "In1"
	pIn2 = "In2"
	pOut = "Out"
	pD   = "D"
	pQ   = "Q"
	pOE  = "OE"
	pCLK = "CLK"
	pCLR = "CLR"
)

// Not is a NOT gate.
//
//	Inputs: In
//	Outputs: Out
//	Function: Out = !In
//
type Not struct {
	name    string
	In, Out dcsim.PinID
}

// NewNot returns a new NOT gate.
//
func NewNot(b *dcsim.Builder, name string) *Not {
	s := b.Socket(name)
	g := &Not{name: name, In: s.Pin(pIn, dcsim.Input), Out: s.Pin(pOut, dcsim.Output)}
	s.Mount(g)
	return g
}

// Name implements dcsim.Component.
//
func (g *Not) Name() string { return g.name }

// Evaluate implements dcsim.Component.
//
func (g *Not) Evaluate(s *dcsim.Simulation) {
	s.Set(g.Out, s.Get(g.In).Not())
}

// Gate is a two-input logic gate.
//
//	Inputs: In1, In2
//	Outputs: Out
//	Function: Out = fn(In1, In2)
//
type Gate struct {
	name          string
	In1, In2, Out dcsim.PinID
	fn            func(a, b bool) bool
}

// NewGate returns a two-input gate computing fn.
//
func NewGate(b *dcsim.Builder, name string, fn func(a, b bool) bool) *Gate {
	s := b.Socket(name)
	g := &Gate{
		name: name,
		In1:  s.Pin(pIn1, dcsim.Input),
		In2:  s.Pin(pIn2, dcsim.Input),
		Out:  s.Pin(pOut, dcsim.Output),
		fn:   fn,
	}
	s.Mount(g)
	return g
}

// Name implements dcsim.Component.
//
func (g *Gate) Name() string { return g.name }

// Evaluate implements dcsim.Component.
//
func (g *Gate) Evaluate(s *dcsim.Simulation) {
	s.Set(g.Out, dcsim.LevelOf(g.fn(s.Get(g.In1).Bool(), s.Get(g.In2).Bool())))
}

// NewOr returns an OR gate.
//
//	Function: Out = In1 || In2
//
func NewOr(b *dcsim.Builder, name string) *Gate {
	return NewGate(b, name, func(a, b bool) bool { return a || b })
}

// NewAnd returns an AND gate.
//
//	Function: Out = In1 && In2
//
func NewAnd(b *dcsim.Builder, name string) *Gate {
	return NewGate(b, name, func(a, b bool) bool { return a && b })
}

// NewNand returns a NAND gate.
//
//	Function: Out = !(In1 && In2)
//
func NewNand(b *dcsim.Builder, name string) *Gate {
	return NewGate(b, name, func(a, b bool) bool { return !(a && b) })
}

// NewNor returns a NOR gate.
//
//	Function: Out = !(In1 || In2)
//
func NewNor(b *dcsim.Builder, name string) *Gate {
	return NewGate(b, name, func(a, b bool) bool { return !(a || b) })
}

// NewXor returns a XOR gate.
//
//	Function: Out = In1 != In2
//
func NewXor(b *dcsim.Builder, name string) *Gate {
	return NewGate(b, name, func(a, b bool) bool { return a != b })
}
