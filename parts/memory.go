// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"github.com/db47h/dcsim"
	"github.com/pkg/errors"
)

// Memory is a byte addressable, static read/write memory (SRAM).
//
//	Inputs: A[addrBits], CE (active low), OE (active low), WE (active low)
//	Inputs/Outputs: IO[dataBits] (bidirectional)
//	Function: if !CE && !WE { mem[A] = IO }
//	          else if !CE && !OE { IO = mem[A] }
//	          else { IO floats }
//
// A write cycle takes precedence over a read cycle. Writes are level
// sensitive: the addressed byte follows IO for as long as CE and WE are low.
//
// Unlike other active low inputs, CE, OE and WE are asserted only while
// driven low. A floating or undefined strobe is deasserted.
//
type Memory struct {
	name       string
	A, IO      dcsim.Group
	CE, OE, WE dcsim.PinID
	data       []byte
	dmask      byte
	inhibit    bool
}

// NewMemory returns a memory with 2^addrBits words of dataBits bits (1 to
// 8). The memory is initially zeroed.
//
func NewMemory(b *dcsim.Builder, name string, addrBits, dataBits int) *Memory {
	s := b.Socket(name)
	m := &Memory{
		name: name,
		A:    s.Group("A", dcsim.Input, addrBits),
		IO:   s.Group("IO", dcsim.Bidirectional, dataBits),
		CE:   s.Pin("CE", dcsim.Input),
		OE:   s.Pin(pOE, dcsim.Input),
		WE:   s.Pin("WE", dcsim.Input),
	}
	if addrBits > 0 && addrBits <= 20 && dataBits > 0 && dataBits <= 8 {
		m.data = make([]byte, 1<<uint(addrBits))
		m.dmask = byte(1<<uint(dataBits) - 1)
	} else {
		s.Errorf("invalid memory geometry: %d address bits, %d data bits", addrBits, dataBits)
	}
	s.Mount(m)
	return m
}

// NewAT28C64 returns an Atmel AT28C64 8K x 8 parallel EEPROM.
//
// It behaves like Memory except that, as on the real chip, holding OE low
// inhibits writes.
//
func NewAT28C64(b *dcsim.Builder, name string) *Memory {
	m := NewMemory(b, name, 13, 8)
	m.inhibit = true
	return m
}

// Name implements dcsim.Component.
//
func (m *Memory) Name() string { return m.name }

// Size returns the memory size in words.
//
func (m *Memory) Size() int { return len(m.data) }

// Load copies data into the memory, starting at address offset. It is meant
// to be called by program loaders before the simulation starts.
//
func (m *Memory) Load(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(m.data) {
		return errors.Errorf("%s: cannot load %d bytes at address %#x: memory size is %d bytes", m.name, len(data), offset, len(m.data))
	}
	for i, v := range data {
		m.data[offset+i] = v & m.dmask
	}
	return nil
}

// Peek returns the word at address addr. It panics if addr is out of range.
//
func (m *Memory) Peek(addr int) byte { return m.data[addr] }

// Evaluate implements dcsim.Component.
//
func (m *Memory) Evaluate(s *dcsim.Simulation) {
	ce := s.Get(m.CE) == dcsim.Low
	oe := s.Get(m.OE) == dcsim.Low
	we := s.Get(m.WE) == dcsim.Low
	addr, _ := s.GetGroup(m.A)

	switch {
	case ce && we && !(oe && m.inhibit):
		s.ReleaseGroup(m.IO)
		v, _ := s.GetGroup(m.IO)
		m.data[addr] = byte(v) & m.dmask
	case ce && oe:
		s.SetGroup(m.IO, uint64(m.data[addr]))
	default:
		s.ReleaseGroup(m.IO)
	}
}
