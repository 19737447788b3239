// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim

import (
	"strconv"
	"strings"
)

// ConfigError is returned by Builder.Build when the netlist has wiring errors.
// It lists every error found during construction.
//
type ConfigError struct {
	Errs []error
}

func (e *ConfigError) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(e.Errs)))
	b.WriteString(" wiring errors:")
	for _, err := range e.Errs {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Fault describes a contention on a node or bus line: two or more active
// drivers disagreeing during a tick. Faults do not stop a simulation.
//
type Fault struct {
	Tick    uint64  // tick number, starting at 0
	Time    float64 // simulated time of the tick
	Net     string  // node or bus name
	Bit     int     // bus line, -1 for nodes
	Drivers []string
}

// Line returns the name of the faulty line, e.g. "CLK" or "main[3]".
//
func (f Fault) Line() string {
	if f.Bit < 0 {
		return f.Net
	}
	return f.Net + "[" + strconv.Itoa(f.Bit) + "]"
}

func (f Fault) String() string {
	return "tick " + strconv.FormatUint(f.Tick, 10) + ": contention on " + f.Line() + " (" + strings.Join(f.Drivers, ", ") + ")"
}
