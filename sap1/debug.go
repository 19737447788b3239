// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sap1

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/db47h/dcsim"
)

// Debug returns an observer that logs the machine state at debug level on
// the first tick and on every rising edge of the clock.
//
func (m *Machine) Debug(l *slog.Logger) dcsim.Observer {
	clk := false
	return dcsim.ObserverFunc(func(s *dcsim.Simulation) {
		lv := s.Get(m.Clock.CLK)
		first := s.Ticks() == 1
		edge := !clk && lv.Bool()
		clk = lv.Bool()
		if !first && !edge {
			return
		}
		l.LogAttrs(context.Background(), slog.LevelDebug, "clock",
			slog.Uint64("tick", s.Ticks()-1),
			slog.Float64("t", s.Time()),
			slog.String("clk", lv.String()),
			slog.Int("bus", int(m.Main.Byte())),
			slog.Uint64("pc", m.PC.Value()),
			slog.Uint64("mar", m.MAR.Value()),
			slog.String("ir", fmt.Sprintf("0x%02x", m.IR.Value())),
			slog.String("op", m.Opcode().String()),
			slog.String("ct", fmt.Sprintf("0x%04x", m.Control())),
			slog.Int("rc", m.RC.Index()),
		)
	})
}
