// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records signal waveforms of a running simulation and renders
// them as timing diagrams.
//
// A Recorder is a dcsim.Observer: it samples its signals after every tick.
// Keep in mind that node levels observed after a tick lag bus levels by one
// tick.
//
package trace

import (
	"log/slog"
	"strings"

	"github.com/db47h/dcsim"
	"github.com/db47h/dcsim/internal/pinspec"
	"github.com/pkg/errors"
)

// Sample is the state of a signal after one tick. Bit i of Z is set if line
// i is floating, bit i of X if it is undefined. Such lines read as 0 in
// Value.
//
type Sample struct {
	Value uint64
	Z, X  uint64
}

// Valid returns true if all lines of the sample have a defined level.
//
func (s Sample) Valid() bool { return s.Z|s.X == 0 }

// Level returns the level of line i.
//
func (s Sample) Level(i int) dcsim.Level {
	m := uint64(1) << uint(i)
	switch {
	case s.X&m != 0:
		return dcsim.Undefined
	case s.Z&m != 0:
		return dcsim.Floating
	case s.Value&m != 0:
		return dcsim.High
	}
	return dcsim.Low
}

// Signal is a traced node, bus or range of bus lines.
//
type Signal struct {
	Name  string // display name, e.g. "ir[4..7]"
	Net   string // node or bus name
	Lo    int    // first bus line
	Width int    // 1 for nodes
	Node  bool

	level func(i int) dcsim.Level
}

// NodeSignal returns a signal tracing node n.
//
func NodeSignal(n *dcsim.Node) Signal {
	return Signal{
		Name:  n.Name(),
		Net:   n.Name(),
		Width: 1,
		Node:  true,
		level: func(int) dcsim.Level { return n.Level() },
	}
}

// BusSignal returns a signal tracing lines lo to hi (inclusive) of bus b.
// It panics if the range is invalid.
//
func BusSignal(b *dcsim.Bus, lo, hi int) Signal {
	if lo < 0 || hi < lo || hi >= b.Width() {
		panic(errors.Errorf("trace: invalid range [%d..%d] for %d bit bus %s", lo, hi, b.Width(), b.Name()))
	}
	sp := pinspec.Spec{Name: b.Name(), Lo: lo, Hi: hi, Ranged: lo != 0 || hi != b.Width()-1}
	return Signal{
		Name:  sp.String(),
		Net:   b.Name(),
		Lo:    lo,
		Width: hi - lo + 1,
		level: func(i int) dcsim.Level { return b.Bit(lo + i) },
	}
}

// Parse returns the signal designated by spec: a node name, a bus name, a
// single bus line like "ir[7]" or a range of bus lines like "ir[4..7]".
//
func Parse(s *dcsim.Simulation, spec string) (Signal, error) {
	sp, err := pinspec.Parse(spec)
	if err != nil {
		return Signal{}, errors.Wrap(err, "trace")
	}
	if n := s.Node(sp.Name); n != nil {
		if sp.Ranged {
			return Signal{}, errors.Errorf("trace: %s is a node", sp.Name)
		}
		return NodeSignal(n), nil
	}
	b := s.Bus(sp.Name)
	if b == nil {
		return Signal{}, errors.Errorf("trace: no node or bus named %s", sp.Name)
	}
	if !sp.Ranged {
		return BusSignal(b, 0, b.Width()-1), nil
	}
	if sp.Hi >= b.Width() {
		return Signal{}, errors.Errorf("trace: %s out of range for %d bit bus %s", sp, b.Width(), b.Name())
	}
	return BusSignal(b, sp.Lo, sp.Hi), nil
}

// ParseList parses a comma separated list of signal specs.
//
func ParseList(s *dcsim.Simulation, specs string) ([]Signal, error) {
	var sigs []Signal
	for _, spec := range strings.Split(specs, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		sig, err := Parse(s, spec)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

func (sig *Signal) sample() Sample {
	var smp Sample
	for i := 0; i < sig.Width; i++ {
		m := uint64(1) << uint(i)
		switch sig.level(i) {
		case dcsim.High:
			smp.Value |= m
		case dcsim.Floating:
			smp.Z |= m
		case dcsim.Undefined:
			smp.X |= m
		}
	}
	return smp
}

// Recorder records the samples of a set of signals after every tick.
//
type Recorder struct {
	sigs []Signal
	t    []float64
	data [][]Sample
}

// NewRecorder returns a new recorder for the given signals.
//
func NewRecorder(sigs ...Signal) *Recorder {
	return &Recorder{sigs: sigs, data: make([][]Sample, len(sigs))}
}

// Observe implements dcsim.Observer.
//
func (r *Recorder) Observe(s *dcsim.Simulation) {
	r.t = append(r.t, s.Time())
	for i := range r.sigs {
		r.data[i] = append(r.data[i], r.sigs[i].sample())
	}
}

// Len returns the number of recorded ticks.
//
func (r *Recorder) Len() int { return len(r.t) }

// Signals returns the recorded signals.
//
func (r *Recorder) Signals() []Signal { return r.sigs }

// Times returns the simulated time of each recorded tick.
//
func (r *Recorder) Times() []float64 { return r.t }

// Samples returns the samples recorded for signal i.
//
func (r *Recorder) Samples(i int) []Sample { return r.data[i] }

// FaultLogger returns an observer logging every contention fault as a
// warning.
//
func FaultLogger(l *slog.Logger) dcsim.Observer {
	return dcsim.ObserverFunc(func(s *dcsim.Simulation) {
		for _, f := range s.Faults() {
			l.Warn("contention",
				slog.Uint64("tick", f.Tick),
				slog.Float64("t", f.Time),
				slog.String("line", f.Line()),
				slog.String("drivers", strings.Join(f.Drivers, ", ")))
		}
	})
}
