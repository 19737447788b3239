// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sap1 builds the fetch/decode front end of a SAP-1 class 8-bit
// computer on top of dcsim: program memory, memory address register,
// program counter, instruction register, a five phase ring counter and the
// opcode decoders feeding the execute sequencer.
//
//	            mar
//	  _______       __________
//	  | MAR | ----- | EEPROM |--- NME, NWE
//	  -------       ----------
//	   D |              | IO
//	     |______________|
//	            |           ______
//	            |-------- D | PC |--- CLK, RC2
//	            |           ------
//	    main    |             || pc
//	            |           _______
//	            |-------- Q | PCB |--- RC1
//	            |           -------
//	            |           ______
//	            |-------- D | IR |--- RC3
//	            |           ------
//	            |             || ir
//	            |           _______
//	            |-------- Q | IRB |--- GND (4 bits)
//	                        -------
//
// The ring counter sequences the fetch cycle: RC1 puts the PC on the main bus
// and loads the MAR, RC2 increments the PC, RC3 reads the EEPROM into the IR.
// RC4 and RC5 enable the two execute sequencer buffers that gate the decoded
// opcode onto the exec1 and exec2 control buses. The execute phase itself is
// not wired: the control buses drive nothing, and the second input of the
// EEPROM read enable gate is grounded, so the EEPROM is only read during RC3.
//
package sap1

import (
	"context"
	"math"

	"github.com/db47h/dcsim"
	"github.com/db47h/dcsim/parts"
	"github.com/pkg/errors"
)

// Config holds the simulation parameters of a Machine.
//
type Config struct {
	Start     float64 // start time in seconds
	End       float64 // end time in seconds, included
	Timestep  float64 // simulation time step in seconds
	Frequency float64 // clock frequency in Hz
}

// DefaultConfig returns the default configuration: one second of simulated
// time in 1 ms steps with a 100 Hz clock.
//
func DefaultConfig() Config {
	return Config{
		Start:     0,
		End:       1,
		Timestep:  0.001,
		Frequency: 100,
	}
}

func (c *Config) check() error {
	switch {
	case math.IsNaN(c.End) || math.IsInf(c.End, 0):
		return errors.Errorf("invalid end time %v", c.End)
	case c.End < c.Start:
		return errors.Errorf("end time %v before start time %v", c.End, c.Start)
	case !(c.Frequency > 0) || math.IsInf(c.Frequency, 0):
		return errors.Errorf("invalid clock frequency %v", c.Frequency)
	}
	return nil
}

// Machine is a SAP-1 netlist ready to run.
//
type Machine struct {
	cfg Config
	Sim *dcsim.Simulation

	EEPROM   *parts.Memory
	MAR, IR  *parts.Latch
	IRB, PCB *parts.Buffer
	PC       *parts.Counter
	RC       *parts.RingCounter
	Clock    *parts.Clock

	NotOE, NotWE, NotIRLE *parts.Not
	OrOE                  *parts.Gate
	DecL, DecH            *parts.Decoder
	Seq1, Seq2            *parts.Buffer

	GND, VCC *dcsim.Node
	NME, NWE *dcsim.Node
	CLK      *dcsim.Node
	RC1, RC2 *dcsim.Node
	RC3, RC4 *dcsim.Node
	RC5      *dcsim.Node
	RDEN     *dcsim.Node
	NOPC4    *dcsim.Node

	Main, MARBus, PCBus, IRBus *dcsim.Bus
	CtlL, CtlH                 *dcsim.Bus
	Exec1, Exec2               *dcsim.Bus
}

// New builds a new machine. The EEPROM is initially blank; use Load to
// program it before running the simulation.
//
func New(cfg Config) (*Machine, error) {
	if err := cfg.check(); err != nil {
		return nil, errors.Wrap(err, "sap1")
	}
	m := &Machine{cfg: cfg}
	b := dcsim.NewBuilder()

	// components, in evaluation order
	m.EEPROM = parts.NewAT28C64(b, "eeprom")
	m.MAR = parts.NewLatch(b, "mar", 8)
	m.IR = parts.NewLatch(b, "ir", 8)
	m.IRB = parts.NewBuffer(b, "irb", 4)
	m.PC = parts.NewCounter(b, "pc", 8)
	m.PCB = parts.NewBuffer(b, "pcb", 8)
	m.RC = parts.NewRingCounter(b, "rc", 5)
	m.Clock = parts.NewClock(b, "clk", cfg.Frequency)
	m.NotOE = parts.NewNot(b, "not_oe")
	m.NotWE = parts.NewNot(b, "not_we")
	m.NotIRLE = parts.NewNot(b, "not_irle")
	m.DecL = parts.NewDecoder3to8(b, "dec_l")
	m.DecH = parts.NewDecoder3to8(b, "dec_h")
	m.Seq1 = parts.NewBuffer(b, "seq1", 8)
	m.Seq2 = parts.NewBuffer(b, "seq2", 8)
	m.OrOE = parts.NewOr(b, "or_oe")

	// buses
	m.Main = b.Bus("main", 8)
	m.Main.Attach(m.EEPROM.IO)
	m.Main.Attach(m.MAR.D)
	m.Main.Attach(m.PC.D)
	m.Main.Attach(m.PCB.Q)
	m.Main.Attach(m.IR.D)
	m.Main.Attach(m.IRB.Q)

	m.MARBus = b.Bus("mar", 8)
	m.MARBus.Attach(m.EEPROM.A.Slice(0, 8))
	m.MARBus.Attach(m.MAR.Q)

	m.PCBus = b.Bus("pc", 8)
	m.PCBus.Attach(m.PC.Q)
	m.PCBus.Attach(m.PCB.D)

	// opcode: bits 4..7 of the IR
	m.IRBus = b.Bus("ir", 8)
	m.IRBus.Attach(m.IR.Q)
	m.IRBus.Attach(m.IRB.D)
	m.IRBus.AttachAt(4, m.DecL.D)
	m.IRBus.AttachAt(4, m.DecH.D)
	m.IRBus.AttachAt(7, dcsim.Group{m.DecH.OE})
	m.IRBus.AttachAt(7, dcsim.Group{m.NotIRLE.In})

	m.CtlL = b.Bus("ctlL", 8)
	m.CtlL.Attach(m.DecL.Q)
	m.CtlL.Attach(m.Seq1.D)
	m.CtlH = b.Bus("ctlH", 8)
	m.CtlH.Attach(m.DecH.Q)
	m.CtlH.Attach(m.Seq2.D)

	m.Exec1 = b.Bus("exec1", 8)
	m.Exec1.Attach(m.Seq1.Q)
	m.Exec2 = b.Bus("exec2", 8)
	m.Exec2.Attach(m.Seq2.Q)

	// nodes
	m.GND = b.Node("GND")
	m.GND.Connect(b.Ground("GND"))
	m.GND.Connect(m.EEPROM.A.Slice(8, 13)...)
	m.GND.Connect(m.EEPROM.CE, m.NotWE.In, m.IRB.OE, m.OrOE.In2)

	m.VCC = b.Node("VCC")
	m.VCC.Connect(b.Source("VCC"))
	m.VCC.Connect(m.MAR.OE, m.IR.OE, m.Clock.EN, m.RC.CLR, m.PC.CLR, m.PC.LD, m.PC.OE)

	m.NME = b.Node("NME")
	m.NME.Connect(m.EEPROM.OE, m.NotOE.Out)
	m.NWE = b.Node("NWE")
	m.NWE.Connect(m.EEPROM.WE, m.NotWE.Out)
	m.RDEN = b.Node("RDEN")
	m.RDEN.Connect(m.OrOE.Out, m.NotOE.In)

	m.CLK = b.Node("CLK")
	m.CLK.Connect(m.Clock.CLK, m.RC.CLK, m.PC.CLK)

	m.RC1 = b.Node("RC1")
	m.RC1.Connect(m.RC.Q[0], m.PCB.OE, m.MAR.LE)
	m.RC2 = b.Node("RC2")
	m.RC2.Connect(m.RC.Q[1], m.PC.CNT)
	m.RC3 = b.Node("RC3")
	m.RC3.Connect(m.RC.Q[2], m.OrOE.In1, m.IR.LE)
	m.RC4 = b.Node("RC4")
	m.RC4.Connect(m.RC.Q[3], m.Seq1.OE)
	m.RC5 = b.Node("RC5")
	m.RC5.Connect(m.RC.Q[4], m.Seq2.OE)

	m.NOPC4 = b.Node("NOPC4")
	m.NOPC4.Connect(m.NotIRLE.Out, m.DecL.OE)

	s, err := b.Build(dcsim.Config{Start: cfg.Start, Timestep: cfg.Timestep})
	if err != nil {
		return nil, errors.Wrap(err, "sap1")
	}
	m.Sim = s
	return m, nil
}

// Config returns the machine configuration.
//
func (m *Machine) Config() Config { return m.cfg }

// Load writes a program image into the EEPROM, starting at address 0.
//
func (m *Machine) Load(image []byte) error {
	return m.EEPROM.Load(0, image)
}

// Run runs the simulation until the configured end time, or until ctx is
// cancelled.
//
func (m *Machine) Run(ctx context.Context) error {
	return m.Sim.RunUntil(ctx, m.cfg.End)
}

// Opcode returns the opcode currently held in the IR.
//
func (m *Machine) Opcode() Opcode { return Opcode(m.IR.Value() >> 4) }

// Control returns the 16 bit decoded control word, high decoder outputs in
// the high byte.
//
func (m *Machine) Control() uint16 {
	return uint16(m.CtlH.Byte())<<8 | uint16(m.CtlL.Byte())
}
