// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import "github.com/db47h/dcsim"

// edge detects rising edges on a clock input.
//
type edge bool

// rising records the current clock level and returns true on a low to high
// transition.
//
func (e *edge) rising(l dcsim.Level) bool {
	prev := bool(*e)
	*e = edge(l.Bool())
	return !prev && l.Bool()
}

// Counter is a synchronous binary up-counter with parallel load and tri-state
// outputs.
//
//	Inputs: D[width], CLK, CLR (active low), LD (active low), CNT, OE
//	Outputs: Q[width] (tri-state)
//	Function: on rising CLK edge:
//	              if !CLR { value = 0 }
//	              else if !LD { value = D }
//	              else if CNT { value = value + 1 mod 2^width }
//	          if OE { Q = value } else { Q floats }
//
type Counter struct {
	name              string
	D, Q              dcsim.Group
	CLK, CLR, LD, CNT dcsim.PinID
	OE                dcsim.PinID
	value             uint64
	mask              uint64
	clk               edge
}

// NewCounter returns a new counter.
//
func NewCounter(b *dcsim.Builder, name string, width int) *Counter {
	s := b.Socket(name)
	c := &Counter{
		name: name,
		D:    s.Group(pD, dcsim.Input, width),
		Q:    s.Group(pQ, dcsim.TriState, width),
		CLK:  s.Pin(pCLK, dcsim.Input),
		CLR:  s.Pin(pCLR, dcsim.Input),
		LD:   s.Pin("LD", dcsim.Input),
		CNT:  s.Pin("CNT", dcsim.Input),
		OE:   s.Pin(pOE, dcsim.Input),
	}
	if width > 0 && width < 64 {
		c.mask = 1<<uint(width) - 1
	} else {
		c.mask = ^uint64(0)
	}
	s.Mount(c)
	return c
}

// Name implements dcsim.Component.
//
func (c *Counter) Name() string { return c.name }

// Value returns the current count.
//
func (c *Counter) Value() uint64 { return c.value }

// Evaluate implements dcsim.Component.
//
func (c *Counter) Evaluate(s *dcsim.Simulation) {
	if c.clk.rising(s.Get(c.CLK)) {
		switch {
		case !s.Get(c.CLR).Bool():
			c.value = 0
		case !s.Get(c.LD).Bool():
			v, _ := s.GetGroup(c.D)
			c.value = v & c.mask
		case s.Get(c.CNT).Bool():
			c.value = (c.value + 1) & c.mask
		}
	}
	if s.Get(c.OE).Bool() {
		s.SetGroup(c.Q, c.value)
	} else {
		s.ReleaseGroup(c.Q)
	}
}

// RingCounter is a one-hot shift register used as a phase sequencer.
//
//	Inputs: CLK, CLR (active low), SER
//	Outputs: Q[n]
//	Function: if !CLR { Q[0] is active }
//	          else on rising CLK edge, the active output moves from Q[i] to Q[i+1].
//	          When Q[n-1] is active, the next state is Q[0] active, unless SER
//	          is driven, in which case Q[0] becomes active only if SER is high.
//
// If SER is left floating, the counter wraps around with period n. Driving
// SER low on a wrap-around empties the register: all outputs stay low until
// a clock edge with SER high or a clear.
//
type RingCounter struct {
	name          string
	CLK, CLR, SER dcsim.PinID
	Q             dcsim.Group
	index         int
	clk           edge
}

// NewRingCounter returns a new ring counter with n outputs. The counter starts
// with Q[0] active.
//
func NewRingCounter(b *dcsim.Builder, name string, n int) *RingCounter {
	s := b.Socket(name)
	r := &RingCounter{
		name: name,
		CLK:  s.Pin(pCLK, dcsim.Input),
		CLR:  s.Pin(pCLR, dcsim.Input),
		SER:  s.Pin("SER", dcsim.Input),
		Q:    s.Group(pQ, dcsim.Output, n),
	}
	s.Mount(r)
	return r
}

// Name implements dcsim.Component.
//
func (r *RingCounter) Name() string { return r.name }

// Index returns the index of the active output, or -1 if the register is
// empty.
//
func (r *RingCounter) Index() int { return r.index }

// Evaluate implements dcsim.Component.
//
func (r *RingCounter) Evaluate(s *dcsim.Simulation) {
	rising := r.clk.rising(s.Get(r.CLK))
	switch {
	case !s.Get(r.CLR).Bool():
		r.index = 0
	case rising:
		r.index = r.next(s.Get(r.SER))
	}
	for i, p := range r.Q {
		s.Set(p, dcsim.LevelOf(i == r.index))
	}
}

func (r *RingCounter) next(ser dcsim.Level) int {
	if r.index >= 0 && r.index < len(r.Q)-1 {
		return r.index + 1
	}
	// wrap-around: Q[0] is fed from Q[n-1] unless SER is driven
	in := r.index == len(r.Q)-1
	if ser.Defined() {
		in = ser.Bool()
	}
	if in {
		return 0
	}
	return -1
}
