// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// A Component is a part of a circuit with a fixed set of pins allocated
// through a Socket.
//
// Evaluate reads the resolved levels of the component's input pins and
// drives its output pins. Sequential components update their private state
// here, and only here.
//
type Component interface {
	Name() string
	Evaluate(s *Simulation)
}

type funcComponent struct {
	name string
	fn   func(s *Simulation)
}

func (c *funcComponent) Name() string           { return c.name }
func (c *funcComponent) Evaluate(s *Simulation) { c.fn(s) }

// ComponentFunc returns a Component named name whose Evaluate method calls fn.
//
func ComponentFunc(name string, fn func(s *Simulation)) Component {
	return &funcComponent{name: name, fn: fn}
}

// Timed is implemented by components that depend on simulated time, like
// clocks. SetTime is called at the start of every tick, before any net is
// resolved.
//
type Timed interface {
	SetTime(t float64)
}

// An Observer is notified after every completed tick. Observers must treat the
// simulation as read-only.
//
type Observer interface {
	Observe(s *Simulation)
}

// ObserverFunc adapts a function to the Observer interface.
//
type ObserverFunc func(s *Simulation)

// Observe calls f(s).
//
func (f ObserverFunc) Observe(s *Simulation) { f(s) }

type phase int

const (
	phaseIdle phase = iota
	phaseNodes
	phaseComponents
	phaseBuses
)

// Simulation is a runnable, frozen netlist.
//
// Every tick runs three passes in a fixed order: nodes are resolved from the
// drive state left by the previous component pass, then every component is
// evaluated in construction order, then buses are resolved from the drive
// state of that component pass. Components thus always see nets as they
// stood after the previous tick: each component adds exactly one tick of
// propagation delay, and there is no attempt to settle within a tick.
//
// A Simulation must be driven by a single goroutine.
//
type Simulation struct {
	a      *arena
	comps  []Component
	timed  []Timed
	nodes  []*Node
	buses  []*Bus
	obs    []Observer
	byNode map[string]*Node
	byBus  map[string]*Bus
	byComp map[string]Component

	start, dt float64
	tick      uint64 // completed ticks
	now       float64
	phase     phase
	cur       int

	faults []Fault
	total  uint64
}

// Observe registers an observer.
//
func (s *Simulation) Observe(o Observer) {
	s.obs = append(s.obs, o)
}

// Ticks returns the number of completed ticks.
//
func (s *Simulation) Ticks() uint64 { return s.tick }

// Time returns the simulated time of the last completed tick, or the start
// time if no tick has run yet.
//
func (s *Simulation) Time() float64 { return s.now }

// Timestep returns the fixed time step.
//
func (s *Simulation) Timestep() float64 { return s.dt }

// Faults returns the contention faults detected during the last completed
// tick. The returned slice is only valid until the next tick.
//
func (s *Simulation) Faults() []Fault { return s.faults }

// TotalFaults returns the number of faults detected since the simulation
// started.
//
func (s *Simulation) TotalFaults() uint64 { return s.total }

// Step advances the simulation by one tick.
//
func (s *Simulation) Step() {
	s.now = s.start + float64(s.tick)*s.dt
	for _, t := range s.timed {
		t.SetTime(s.now)
	}
	s.faults = s.faults[:0]

	s.phase = phaseNodes
	for _, n := range s.nodes {
		s.resolve(n.line)
	}

	s.phase = phaseComponents
	for i, c := range s.comps {
		s.cur = i
		c.Evaluate(s)
	}
	s.cur = -1

	s.phase = phaseBuses
	for _, b := range s.buses {
		for i := 0; i < b.width; i++ {
			s.resolve(b.base + i)
		}
		b.pack()
	}

	s.phase = phaseIdle
	s.tick++
	for _, o := range s.obs {
		o.Observe(s)
	}
}

// Run runs the simulation for the given number of ticks. It returns early if
// ctx is cancelled; the state of the last completed tick remains valid.
//
func (s *Simulation) Run(ctx context.Context, ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "simulation stopped after %d ticks", s.tick)
		}
		s.Step()
	}
	return nil
}

// RunUntil runs the simulation until the time of the next tick would exceed
// end.
//
func (s *Simulation) RunUntil(ctx context.Context, end float64) error {
	return s.Run(ctx, s.TicksUntil(end))
}

// TicksUntil returns the number of ticks left until end, end included.
//
func (s *Simulation) TicksUntil(end float64) int {
	next := s.start + float64(s.tick)*s.dt
	if end < next {
		return 0
	}
	// tolerate rounding errors on end
	return int(math.Floor((end-next)/s.dt+1e-9)) + 1
}

// resolve computes the level of line i from its drivers.
//
func (s *Simulation) resolve(i int) {
	l := &s.a.lines[i]
	var lo, hi, x bool
	for _, p := range l.pins {
		lv, ok := s.a.pins[p].drive()
		if !ok {
			continue
		}
		switch lv {
		case Low:
			lo = true
		case High:
			hi = true
		default:
			x = true
		}
	}
	switch {
	case lo && hi:
		l.level = Undefined
		s.fault(l)
	case x:
		l.level = Undefined
	case hi:
		l.level = High
	case lo:
		l.level = Low
	default:
		l.level = Floating
	}
}

func (s *Simulation) fault(l *line) {
	f := Fault{Tick: s.tick, Time: s.now, Net: l.net, Bit: l.bit}
	for _, p := range l.pins {
		pn := &s.a.pins[p]
		if lv, ok := pn.drive(); ok {
			f.Drivers = append(f.Drivers, pn.name+"="+string(lv.Rune()))
		}
	}
	s.faults = append(s.faults, f)
	s.total++
}

// Get returns the level seen by pin p: the resolved level of the line it is
// connected to. An unconnected pin reads its own drive level if it is driving,
// Floating otherwise.
//
func (s *Simulation) Get(p PinID) Level {
	pn := &s.a.pins[p]
	if pn.line < 0 {
		lv, _ := pn.drive()
		return lv
	}
	return s.a.lines[pn.line].level
}

// GetGroup returns the value of the pins in g, pin 0 being the lsb. ok is
// false if any pin has a Floating or Undefined level, in which case that bit
// reads as 0.
//
func (s *Simulation) GetGroup(g Group) (v uint64, ok bool) {
	ok = true
	for i, p := range g {
		switch s.Get(p) {
		case High:
			v |= 1 << uint(i)
		case Low:
		default:
			ok = false
		}
	}
	return v, ok
}

// own checks that p can be driven by the component being evaluated.
//
func (s *Simulation) own(p PinID) *pin {
	pn := &s.a.pins[p]
	if s.phase != phaseComponents {
		panic(errors.Errorf("dcsim: pin %s driven outside of component evaluation", pn.name))
	}
	if pn.owner != s.cur {
		panic(errors.Errorf("dcsim: component %s cannot drive pin %s", s.comps[s.cur].Name(), pn.name))
	}
	return pn
}

// Set drives pin p to level l. Setting a TriState or Bidirectional pin enables
// its output; setting it to Floating releases it. Set must only be called from
// the Evaluate method of the component owning p.
//
func (s *Simulation) Set(p PinID, l Level) {
	pn := s.own(p)
	switch pn.role {
	case Output:
	case TriState, Bidirectional:
		pn.enabled = l != Floating
	default:
		panic(errors.Errorf("dcsim: cannot drive %s pin %s", pn.role, pn.name))
	}
	pn.level = l
}

// Release stops driving pin p. Release must only be called from the Evaluate
// method of the component owning p.
//
func (s *Simulation) Release(p PinID) {
	pn := s.own(p)
	if !pn.role.switched() {
		panic(errors.Errorf("dcsim: cannot release %s pin %s", pn.role, pn.name))
	}
	pn.enabled = false
	pn.level = Floating
}

// SetGroup drives the pins in g with the bits of v, pin 0 being the lsb.
//
func (s *Simulation) SetGroup(g Group, v uint64) {
	for i, p := range g {
		s.Set(p, LevelOf(v&(1<<uint(i)) != 0))
	}
}

// ReleaseGroup releases all pins in g.
//
func (s *Simulation) ReleaseGroup(g Group) {
	for _, p := range g {
		s.Release(p)
	}
}

// Enabled returns true if pin p is actively driving its line.
//
func (s *Simulation) Enabled(p PinID) bool {
	_, ok := s.a.pins[p].drive()
	return ok
}

// Node returns the node with the given name, or nil.
//
func (s *Simulation) Node(name string) *Node { return s.byNode[name] }

// Bus returns the bus with the given name, or nil.
//
func (s *Simulation) Bus(name string) *Bus { return s.byBus[name] }

// Component returns the component with the given name, or nil.
//
func (s *Simulation) Component(name string) Component { return s.byComp[name] }

// Nodes returns all nodes in resolution order.
//
func (s *Simulation) Nodes() []*Node { return append([]*Node(nil), s.nodes...) }

// Buses returns all buses in resolution order.
//
func (s *Simulation) Buses() []*Bus { return append([]*Bus(nil), s.buses...) }

// Components returns all components in evaluation order.
//
func (s *Simulation) Components() []Component { return append([]Component(nil), s.comps...) }

// Lookup returns the pins designated by spec: a pin name like "mar.LE", a
// single group pin like "mar.Q[3]", a range like "mar.Q[0..3]" or a whole
// group like "mar.Q".
//
func (s *Simulation) Lookup(spec string) (Group, error) {
	return s.a.lookup(spec)
}

// PinName returns the full name of pin p.
//
func (s *Simulation) PinName(p PinID) string { return s.a.pinName(p) }
