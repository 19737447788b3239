// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim

import (
	"math"

	"github.com/pkg/errors"
)

// Config holds the timing parameters of a simulation.
//
type Config struct {
	// Simulated time of the first tick, in seconds.
	Start float64
	// Fixed time step, in seconds. Must be > 0.
	Timestep float64
}

// A Builder constructs a netlist: components (through sockets), nodes, buses
// and the connections between them. Build freezes the netlist and returns a
// runnable Simulation.
//
// Wiring errors do not interrupt construction. They are collected and
// reported together by Build.
//
type Builder struct {
	a      *arena
	socks  []*Socket
	comps  []Component
	nodes  []*Node
	buses  []*Bus
	nets   map[string]bool
	errs   []error
	frozen bool
}

// NewBuilder returns a new, empty netlist builder.
//
func NewBuilder() *Builder {
	return &Builder{
		a:    newArena(),
		nets: make(map[string]bool),
	}
}

func (b *Builder) errorf(format string, args ...interface{}) {
	b.errs = append(b.errs, errors.Errorf(format, args...))
}

func (b *Builder) checkFrozen() {
	if b.frozen {
		panic(errors.New("dcsim: netlist is frozen"))
	}
}

// Socket returns a new socket for a component with the given name.
//
func (b *Builder) Socket(name string) *Socket {
	b.checkFrozen()
	for _, s := range b.socks {
		if s.name == name {
			b.errorf("duplicate component name %s", name)
			break
		}
	}
	s := &Socket{b: b, name: name, owner: len(b.socks), m: make(map[string]PinID)}
	b.socks = append(b.socks, s)
	b.comps = append(b.comps, nil)
	return s
}

// Ground returns a new free-standing ground pin.
//
func (b *Builder) Ground(name string) PinID {
	b.checkFrozen()
	return b.a.allocPin(name, -1, Ground)
}

// Source returns a new free-standing source (Vcc) pin.
//
func (b *Builder) Source(name string) PinID {
	b.checkFrozen()
	return b.a.allocPin(name, -1, Source)
}

func (b *Builder) newNet(name string) bool {
	b.checkFrozen()
	if name == "" {
		b.errorf("empty net name")
		return false
	}
	if b.nets[name] {
		b.errorf("duplicate net name %s", name)
		return false
	}
	b.nets[name] = true
	return true
}

// Node returns a new named electrical node.
//
func (b *Builder) Node(name string) *Node {
	b.newNet(name)
	n := &Node{b: b, a: b.a, name: name, line: b.a.allocLines(name, 1, false)}
	b.nodes = append(b.nodes, n)
	return n
}

// Bus returns a new named bus of the given width (1 to 64 lines).
//
func (b *Builder) Bus(name string, width int) *Bus {
	b.newNet(name)
	if width < 1 || width > 64 {
		b.errorf("bus %s: invalid width %d", name, width)
		width = 0
	}
	bus := &Bus{b: b, a: b.a, name: name, width: width, base: b.a.allocLines(name, width, true)}
	b.buses = append(b.buses, bus)
	return bus
}

// Lookup returns the pins designated by spec, e.g. "mar.Q[0..3]". See
// Simulation.Lookup.
//
func (b *Builder) Lookup(spec string) (Group, error) {
	return b.a.lookup(spec)
}

// connect wires pin p to line l.
//
func (b *Builder) connect(net string, l int, p PinID) {
	b.checkFrozen()
	if !b.a.valid(p) {
		b.errorf("%s: dangling pin reference %d", net, p)
		return
	}
	pn := &b.a.pins[p]
	if pn.line >= 0 {
		if pn.line == l {
			b.errorf("%s: pin %s connected twice", net, pn.name)
		} else {
			b.errorf("%s: pin %s already connected to %s", net, pn.name, b.a.lines[pn.line].String())
		}
		return
	}
	pn.line = l
	b.a.lines[l].pins = append(b.a.lines[l].pins, p)
}

// Build checks the netlist and returns a runnable Simulation. If any wiring
// error was recorded during construction, Build returns a *ConfigError
// listing all of them. The netlist cannot be modified once Build has been
// called.
//
func (b *Builder) Build(cfg Config) (*Simulation, error) {
	b.checkFrozen()
	if cfg.Timestep <= 0 || math.IsNaN(cfg.Timestep) || math.IsInf(cfg.Timestep, 0) {
		b.errorf("invalid time step %v", cfg.Timestep)
	}
	if math.IsNaN(cfg.Start) || math.IsInf(cfg.Start, 0) {
		b.errorf("invalid start time %v", cfg.Start)
	}
	for i, c := range b.comps {
		if c == nil {
			b.errorf("component %s was never mounted", b.socks[i].name)
		}
	}
	if len(b.errs) > 0 {
		return nil, &ConfigError{Errs: b.errs}
	}
	b.frozen = true

	s := &Simulation{
		a:      b.a,
		comps:  b.comps,
		nodes:  b.nodes,
		buses:  b.buses,
		start:  cfg.Start,
		dt:     cfg.Timestep,
		now:    cfg.Start,
		cur:    -1,
		byNode: make(map[string]*Node, len(b.nodes)),
		byBus:  make(map[string]*Bus, len(b.buses)),
		byComp: make(map[string]Component, len(b.comps)),
	}
	for _, n := range b.nodes {
		s.byNode[n.name] = n
	}
	for _, bus := range b.buses {
		s.byBus[bus.name] = bus
	}
	for i, c := range b.comps {
		s.byComp[b.socks[i].name] = c
		if t, ok := c.(Timed); ok {
			s.timed = append(s.timed, t)
		}
	}
	return s, nil
}
