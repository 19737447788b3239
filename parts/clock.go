// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"math"

	"github.com/db47h/dcsim"
)

// Clock is a free running square wave generator driven by simulated time.
//
//	Inputs: EN
//	Outputs: CLK
//	Function: if EN { CLK = floor(2·t·frequency) is odd } else { CLK = 0 }
//
// The clock is low during the first half period, so the first rising edge
// occurs at t = 1/(2·frequency).
//
type Clock struct {
	name    string
	EN, CLK dcsim.PinID
	freq    float64
	t       float64
}

// NewClock returns a new clock running at the given frequency in Hz.
//
func NewClock(b *dcsim.Builder, name string, frequency float64) *Clock {
	s := b.Socket(name)
	c := &Clock{
		name: name,
		EN:   s.Pin("EN", dcsim.Input),
		CLK:  s.Pin(pCLK, dcsim.Output),
		freq: frequency,
	}
	s.Mount(c)
	return c
}

// Name implements dcsim.Component.
//
func (c *Clock) Name() string { return c.name }

// Frequency returns the clock frequency in Hz.
//
func (c *Clock) Frequency() float64 { return c.freq }

// SetFrequency sets the clock frequency in Hz. A clock with a frequency <= 0
// is held low.
//
func (c *Clock) SetFrequency(f float64) { c.freq = f }

// SetTime implements dcsim.Timed.
//
func (c *Clock) SetTime(t float64) { c.t = t }

// Evaluate implements dcsim.Component.
//
func (c *Clock) Evaluate(s *dcsim.Simulation) {
	s.Set(c.CLK, dcsim.LevelOf(s.Get(c.EN).Bool() && c.level()))
}

func (c *Clock) level() bool {
	if c.freq <= 0 {
		return false
	}
	// half periods elapsed, with some slack for accumulated rounding errors in t
	n := math.Floor(2*c.t*c.freq + 1e-9)
	return int64(n)&1 == 1
}
