// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions and parts for testing circuits.
//
package simtest

import (
	"context"
	"testing"

	"github.com/db47h/dcsim"
)

// Timestep is the time step used by Build.
//
const Timestep = 1e-3

// Latency is the number of ticks it takes for a level set on a Driver to show
// up on the nodes connected to the outputs of a component reading it: one
// tick for the driver, one for the component, one for the node to resolve.
//
const Latency = 3

// Driver is a test part driving a group of tri-state pins with levels set by
// the test. A new Driver floats all its pins.
//
//	Outputs: Q[width] (tri-state)
//
type Driver struct {
	name   string
	Q      dcsim.Group
	levels []dcsim.Level
}

// NewDriver returns a new driver.
//
func NewDriver(b *dcsim.Builder, name string, width int) *Driver {
	s := b.Socket(name)
	d := &Driver{name: name, Q: s.Group("Q", dcsim.TriState, width), levels: make([]dcsim.Level, width)}
	d.Float()
	s.Mount(d)
	return d
}

// Name implements dcsim.Component.
//
func (d *Driver) Name() string { return d.name }

// Pin returns the first pin of the driver. Useful for 1 bit drivers.
//
func (d *Driver) Pin() dcsim.PinID { return d.Q[0] }

// Set drives v on the driver outputs, bit 0 on Q[0].
//
func (d *Driver) Set(v uint64) {
	for i := range d.levels {
		d.levels[i] = dcsim.LevelOf(v&(1<<uint(i)) != 0)
	}
}

// SetBool drives all outputs high if v is true, low otherwise.
//
func (d *Driver) SetBool(v bool) {
	for i := range d.levels {
		d.levels[i] = dcsim.LevelOf(v)
	}
}

// SetLevel sets the level driven on Q[i]. Floating releases the pin.
//
func (d *Driver) SetLevel(i int, l dcsim.Level) { d.levels[i] = l }

// Float releases all outputs.
//
func (d *Driver) Float() {
	for i := range d.levels {
		d.levels[i] = dcsim.Floating
	}
}

// Evaluate implements dcsim.Component.
//
func (d *Driver) Evaluate(s *dcsim.Simulation) {
	for i, p := range d.Q {
		s.Set(p, d.levels[i])
	}
}

// Vcc returns a new node tied to a source pin, named name.
//
func Vcc(b *dcsim.Builder, name string) *dcsim.Node {
	n := b.Node(name)
	n.Connect(b.Source(name + ".src"))
	return n
}

// Gnd returns a new node tied to a ground pin, named name.
//
func Gnd(b *dcsim.Builder, name string) *dcsim.Node {
	n := b.Node(name)
	n.Connect(b.Ground(name + ".gnd"))
	return n
}

// Build builds the netlist with the default time step. It calls t.Fatal if
// the netlist has errors.
//
func Build(t testing.TB, b *dcsim.Builder) *dcsim.Simulation {
	t.Helper()
	s, err := b.Build(dcsim.Config{Timestep: Timestep})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// Run runs the simulation for n ticks.
//
func Run(s *dcsim.Simulation, n int) {
	if err := s.Run(context.Background(), n); err != nil {
		panic(err)
	}
}

// Settle runs the simulation for Latency ticks.
//
func Settle(s *dcsim.Simulation) { Run(s, Latency) }

// Pulse drives a full clock cycle on clk: low for Latency ticks, then high
// for Latency ticks. Clocked parts reading clk see exactly one rising edge
// and their outputs have settled when Pulse returns.
//
func Pulse(s *dcsim.Simulation, clk *Driver) {
	clk.SetBool(false)
	Settle(s)
	clk.SetBool(true)
	Settle(s)
}

// NoFaults reports a test error for every contention fault of the last tick.
//
func NoFaults(t testing.TB, s *dcsim.Simulation) {
	t.Helper()
	for _, f := range s.Faults() {
		t.Error(f)
	}
}
