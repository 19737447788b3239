// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts_test

import (
	"testing"
	"testing/quick"

	"github.com/db47h/dcsim"
	"github.com/db47h/dcsim/parts"
	"github.com/db47h/dcsim/simtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCircuit struct {
	s          *dcsim.Simulation
	addr, data *simtest.Driver
	ce, oe, we *simtest.Driver
	m          *parts.Memory
	io         *dcsim.Bus
}

func newMemCircuit(t *testing.T, newMem func(b *dcsim.Builder) *parts.Memory) *memCircuit {
	t.Helper()
	b := dcsim.NewBuilder()
	c := &memCircuit{m: newMem(b)}
	c.addr = simtest.NewDriver(b, "addr", len(c.m.A))
	c.data = simtest.NewDriver(b, "data", 8)
	c.ce = simtest.NewDriver(b, "ce", 1)
	c.oe = simtest.NewDriver(b, "oe", 1)
	c.we = simtest.NewDriver(b, "we", 1)
	a := b.Bus("A", len(c.m.A))
	a.Attach(c.addr.Q)
	a.Attach(c.m.A)
	c.io = b.Bus("IO", 8)
	c.io.Attach(c.data.Q)
	c.io.Attach(c.m.IO)
	b.Node("CE").Connect(c.ce.Pin(), c.m.CE)
	b.Node("OE").Connect(c.oe.Pin(), c.m.OE)
	b.Node("WE").Connect(c.we.Pin(), c.m.WE)
	c.s = simtest.Build(t, b)

	// deselected
	c.ce.SetBool(true)
	c.oe.SetBool(true)
	c.we.SetBool(true)
	simtest.Settle(c.s)
	return c
}

func (c *memCircuit) write(addr uint64, v byte) {
	c.addr.Set(addr)
	c.data.Set(uint64(v))
	c.ce.SetBool(false)
	c.oe.SetBool(true)
	c.we.SetBool(false)
	simtest.Settle(c.s)
	c.we.SetBool(true)
	c.data.Float()
	simtest.Settle(c.s)
}

func (c *memCircuit) read(addr uint64) (byte, bool) {
	c.addr.Set(addr)
	c.ce.SetBool(false)
	c.oe.SetBool(false)
	c.we.SetBool(true)
	simtest.Settle(c.s)
	v := c.io.Byte()
	ok := c.io.Valid()
	c.oe.SetBool(true)
	simtest.Settle(c.s)
	return v, ok
}

func newSRAM(b *dcsim.Builder) *parts.Memory { return parts.NewMemory(b, "ram", 4, 8) }

func TestMemory(t *testing.T) {
	c := newMemCircuit(t, newSRAM)
	require.Equal(t, 16, c.m.Size())

	f := func(a uint8, v byte) bool {
		addr := uint64(a & 0xf)
		c.write(addr, v)
		got, ok := c.read(addr)
		return ok && got == v && c.m.Peek(int(addr)) == v
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
	assert.Zero(t, c.s.TotalFaults())
}

func TestMemory_deselected(t *testing.T) {
	c := newMemCircuit(t, newSRAM)
	require.NoError(t, c.m.Load(0, []byte{0x42}))

	// OE low but CE high: outputs float
	c.addr.Set(0)
	c.oe.SetBool(false)
	simtest.Settle(c.s)
	_, valid := c.io.Value()
	assert.Equal(t, uint64(0), valid)

	v, ok := c.read(0)
	assert.True(t, ok)
	assert.Equal(t, byte(0x42), v)
}

func TestMemory_writeWins(t *testing.T) {
	c := newMemCircuit(t, newSRAM)
	require.NoError(t, c.m.Load(3, []byte{0x42}))

	c.addr.Set(3)
	c.data.Set(0x17)
	c.ce.SetBool(false)
	c.oe.SetBool(false)
	c.we.SetBool(false)
	simtest.Settle(c.s)
	assert.Equal(t, byte(0x17), c.m.Peek(3))
	assert.Zero(t, c.s.TotalFaults(), "memory should not drive IO during a write")
}

func TestAT28C64_writeInhibit(t *testing.T) {
	c := newMemCircuit(t, func(b *dcsim.Builder) *parts.Memory { return parts.NewAT28C64(b, "eeprom") })
	require.Equal(t, 8192, c.m.Size())
	require.NoError(t, c.m.Load(0x1ffe, []byte{0x42, 0x43}))

	// OE and WE low: reads, no write
	c.addr.Set(0x1fff)
	c.ce.SetBool(false)
	c.oe.SetBool(false)
	c.we.SetBool(false)
	simtest.Settle(c.s)
	assert.Equal(t, byte(0x43), c.io.Byte())
	assert.Equal(t, byte(0x43), c.m.Peek(0x1fff))

	// OE high: write goes through
	c.oe.SetBool(true)
	simtest.Settle(c.s)
	c.write(0x1ffe, 0x99)
	assert.Equal(t, byte(0x99), c.m.Peek(0x1ffe))
}

func TestMemory_load(t *testing.T) {
	b := dcsim.NewBuilder()
	m := parts.NewMemory(b, "rom", 3, 4)
	assert.NoError(t, m.Load(6, []byte{0xff, 0x12}))
	assert.Equal(t, byte(0xf), m.Peek(6), "data should be masked to the word size")
	assert.Equal(t, byte(0x2), m.Peek(7))
	assert.Error(t, m.Load(7, []byte{1, 2}))
	assert.Error(t, m.Load(-1, []byte{1}))
}

func TestMemory_invalid(t *testing.T) {
	for _, d := range []struct{ a, d int }{{0, 8}, {21, 8}, {8, 0}, {8, 9}} {
		b := dcsim.NewBuilder()
		parts.NewMemory(b, "ram", d.a, d.d)
		_, err := b.Build(dcsim.Config{Timestep: simtest.Timestep})
		assert.Error(t, err, "%d address bits, %d data bits", d.a, d.d)
	}
}

// The WE strobe comes out of a gate that has not been evaluated yet on the
// first tick: the loaded data must survive power-up.
//
func TestMemory_powerUp(t *testing.T) {
	b := dcsim.NewBuilder()
	m := parts.NewMemory(b, "ram", 4, 8)
	not := parts.NewNot(b, "not_we")
	simtest.Gnd(b, "GND").Connect(m.CE, not.In)
	simtest.Vcc(b, "VCC").Connect(m.OE)
	we := b.Node("WE")
	we.Connect(not.Out, m.WE)
	b.Bus("IO", 8).Attach(m.IO)
	s := simtest.Build(t, b)
	require.NoError(t, m.Load(0, []byte{0x5a}))

	s.Step()
	assert.Equal(t, dcsim.Floating, we.Level())
	assert.Equal(t, byte(0x5a), m.Peek(0), "after tick 0")

	simtest.Run(s, 10)
	assert.Equal(t, dcsim.High, we.Level())
	assert.Equal(t, byte(0x5a), m.Peek(0))
	assert.Zero(t, s.TotalFaults())
}

func TestMemory_floatingStrobes(t *testing.T) {
	b := dcsim.NewBuilder()
	m := parts.NewMemory(b, "ram", 4, 8)
	d := simtest.NewDriver(b, "d", 8)
	io := b.Bus("IO", 8)
	io.Attach(d.Q)
	io.Attach(m.IO)
	s := simtest.Build(t, b)
	require.NoError(t, m.Load(0, []byte{0x5a}))

	d.Set(0x17)
	simtest.Run(s, 10)
	assert.Equal(t, byte(0x5a), m.Peek(0), "floating WE should not write")

	d.Float()
	simtest.Settle(s)
	_, valid := io.Value()
	assert.Zero(t, valid, "floating OE should not drive IO")
	assert.Zero(t, s.TotalFaults())
}
