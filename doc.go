// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package dcsim is a discrete-time digital logic simulator for small 8-bit
computers modeled at the register level.

A netlist is made of pins, nodes, buses and components. Pins have a fixed
role (input, output, ground, source, tri-state or bidirectional) and live in
a single arena; everything else refers to them through PinID handles.
Nodes join pins into a single wire, buses join pin groups bit-for-bit.
Components own their pins and compute new output levels from the levels
they read on their inputs.

Netlists are built with a Builder:

	b := dcsim.NewBuilder()
	gnd := b.Ground("GND")
	not := parts.NewNot(b, "not")
	b.Node("in").Connect(gnd, not.In)
	out := b.Node("out")
	out.Connect(not.Out)
	sim, err := b.Build(dcsim.Config{Timestep: 1e-3})

Then stepped forward one fixed time step at a time. Nodes are resolved before
components are evaluated, so the output of the gate shows up on its node one
tick after the gate has been evaluated:

	sim.Step()
	sim.Step()
	fmt.Println(out.Level()) // High

Line resolution

Every tick, the level of each node and bus line is computed from scratch
from the pins actively driving it:

	- no driver: Floating. A floating line does not remember its last driven
	  level. Readers see it as Low. Output pins do not drive anything until
	  their component has been evaluated once, so on the first tick every
	  node that is not tied to a ground or source pin floats.
	- one driver, or several agreeing drivers: the drivers' level.
	- disagreeing drivers: Undefined, and a contention Fault is recorded for
	  the tick. The simulation keeps running.

Scheduling

The simulator does not solve for a steady state within a tick. Each tick
resolves nodes, evaluates components, then resolves buses, always in that
order, so that every component sees the outputs of the previous tick. A
signal going through k components takes k ticks to propagate, and feedback
loops lag by one tick. Pick a time step small enough relative to the clock
period for signals to settle between clock edges.
*/
package dcsim
