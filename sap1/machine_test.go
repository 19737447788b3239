// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sap1_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/db47h/dcsim"
	"github.com/db47h/dcsim/sap1"
	"github.com/db47h/dcsim/simtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With the default configuration, a clock period is 10 ticks and a ring
// cycle 50 ticks. The PC is incremented on the clock edge that ends RC2, at
// tick 16 of each cycle, and the IR is loaded during RC3. By tick 45 of
// cycle k, RC5 is active and the machine state is stable.
const (
	ticksPerCycle = 50
	pcTick        = 16
	stableTick    = 45
)

func newMachine(t *testing.T, img []byte) *sap1.Machine {
	t.Helper()
	m, err := sap1.New(sap1.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, m.Load(img))
	return m
}

func TestMachine_fetch(t *testing.T) {
	img := []byte{0x15, 0x26, 0x40, 0x70, 0x8f, 0x93, 0xa1, 0xb2, 0xc2, 0xd4, 0xe5, 0xf0, 0x0e}
	m := newMachine(t, img)

	var incs []uint64
	prev := uint64(0)
	m.Sim.Observe(dcsim.ObserverFunc(func(s *dcsim.Simulation) {
		if v := m.PC.Value(); v != prev {
			if v != prev+1 {
				t.Errorf("tick %d: PC went from %d to %d", s.Ticks()-1, prev, v)
			}
			incs = append(incs, s.Ticks()-1)
			prev = v
		}
	}))

	simtest.Run(m.Sim, stableTick+1)
	for k, b := range img {
		require.Equal(t, 4, m.RC.Index(), "cycle %d", k)
		assert.Equal(t, uint64(k), m.MAR.Value(), "MAR, cycle %d", k)
		assert.Equal(t, uint64(k+1), m.PC.Value(), "PC, cycle %d", k)
		assert.Equal(t, uint64(b), m.IR.Value(), "IR, cycle %d", k)

		op, _ := sap1.Decode(b)
		assert.Equal(t, op, m.Opcode())
		assert.Equal(t, uint16(1)<<op, m.Control(), "control word for %v", op)
		if op >= 8 {
			assert.Equal(t, m.CtlH.Byte(), m.Exec2.Byte(), "exec2 for %v", op)
			assert.True(t, m.Exec2.Valid())
		} else {
			_, valid := m.Exec2.Value()
			assert.Zero(t, valid, "exec2 should float for %v", op)
		}
		_, valid := m.Exec1.Value()
		assert.Zero(t, valid, "exec1 should float during RC5")

		simtest.Run(m.Sim, ticksPerCycle)
	}

	require.Len(t, incs, len(img)+1)
	for k, tick := range incs {
		assert.Equal(t, uint64(k*ticksPerCycle+pcTick), tick)
	}
	assert.Zero(t, m.Sim.TotalFaults())
}

func TestMachine_execute1(t *testing.T) {
	m := newMachine(t, []byte{sap1.OUT.Instr(0)})
	// RC4 is active from tick 27 to 36 of the first cycle
	simtest.Run(m.Sim, 36)
	assert.Equal(t, byte(1<<sap1.OUT), m.Exec1.Byte())
	assert.True(t, m.Exec1.Valid())
}

func TestMachine_jump(t *testing.T) {
	m := newMachine(t, []byte{sap1.JMP.Instr(0), sap1.NOP.Instr(0)})
	simtest.Run(m.Sim, stableTick+1)
	assert.Equal(t, sap1.JMP, m.Opcode())
	assert.Equal(t, byte(1<<(sap1.JMP-8)), m.Exec2.Byte())
	// the EEPROM is only read during RC3
	assert.Equal(t, dcsim.Low, m.RDEN.Level())
	assert.Equal(t, dcsim.High, m.NME.Level())
	_, valid := m.Main.Value()
	assert.Zero(t, valid, "main bus should float during RC5")

	simtest.Run(m.Sim, 2*ticksPerCycle)
	assert.Equal(t, uint64(3), m.PC.Value())
	assert.Zero(t, m.Sim.TotalFaults())
}

func TestMachine_run(t *testing.T) {
	m := newMachine(t, sap1.DefaultImage())
	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, uint64(1001), m.Sim.Ticks())
	assert.InDelta(t, 1.0, m.Sim.Time(), 1e-9)
	assert.Equal(t, uint64(20), m.PC.Value())
	assert.Zero(t, m.Sim.TotalFaults())
	// the EEPROM is never written
	assert.Equal(t, byte(0x15), m.EEPROM.Peek(0))
	assert.Equal(t, dcsim.High, m.NWE.Level())
}

func TestMachine_cancel(t *testing.T) {
	m := newMachine(t, sap1.DefaultImage())
	ctx, cancel := context.WithCancel(context.Background())
	m.Sim.Observe(dcsim.ObserverFunc(func(s *dcsim.Simulation) {
		if s.Ticks() == 100 {
			cancel()
		}
	}))
	err := m.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, uint64(100), m.Sim.Ticks())
}

func TestMachine_config(t *testing.T) {
	td := []struct {
		name string
		fn   func(c *sap1.Config)
		err  string
	}{
		{"end", func(c *sap1.Config) { c.End = -1 }, "sap1: end time -1 before start time 0"},
		{"endInf", func(c *sap1.Config) { c.End = math.Inf(1) }, "sap1: invalid end time +Inf"},
		{"endNaN", func(c *sap1.Config) { c.End = math.NaN() }, "sap1: invalid end time NaN"},
		{"frequency", func(c *sap1.Config) { c.Frequency = 0 }, "sap1: invalid clock frequency 0"},
		{"timestep", func(c *sap1.Config) { c.Timestep = 0 }, "sap1: invalid time step 0"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			cfg := sap1.DefaultConfig()
			d.fn(&cfg)
			_, err := sap1.New(cfg)
			require.Error(t, err)
			assert.Equal(t, d.err, err.Error())
		})
	}

	m, err := sap1.New(sap1.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, sap1.DefaultConfig(), m.Config())
	assert.Error(t, m.Load(make([]byte, 8193)))
}

func TestMachine_debug(t *testing.T) {
	m := newMachine(t, sap1.DefaultImage())
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m.Sim.Observe(m.Debug(l))
	simtest.Run(m.Sim, 100)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// first tick, then the clock node rises at ticks 6, 16, ..., 96
	require.Len(t, lines, 11)
	assert.Contains(t, lines[0], "msg=clock")
	assert.Contains(t, lines[0], "tick=0")
	assert.Contains(t, lines[1], "tick=6")
	assert.Contains(t, lines[1], "clk=High")
	assert.Contains(t, lines[2], "pc=1")

	// nothing is logged above debug level
	buf.Reset()
	m.Sim.Observe(m.Debug(slog.New(slog.NewTextHandler(&buf, nil))))
	simtest.Run(m.Sim, 100)
	assert.NotContains(t, buf.String(), "level=INFO")
}
