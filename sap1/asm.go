// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sap1

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
)

// MaxImageSize is the size of the address space reachable through the MAR.
//
const MaxImageSize = 256

const maxErrors = 20

type fixup struct {
	addr  int
	label string
	pos   scanner.Position
}

type assembler struct {
	s    scanner.Scanner
	tok  rune
	text string
	pos  scanner.Position
	back bool

	image  []byte
	addr   int
	labels map[string]int
	fixups []fixup
	errs   []string
}

// Assemble assembles a SAP-1 program and returns its memory image. The source
// is line oriented:
//
//	; comment
//	label:  LDA x     ; instruction with a 4 bit address operand
//	        ADD       ; instruction without operand
//	        .org 14   ; set the assembly address
//	x:      .byte 42, 0x2a
//
// Mnemonics are case insensitive. Operands are numbers or labels; labels
// may be used before they are defined. All errors found are reported,
// one per line.
//
func Assemble(r io.Reader) ([]byte, error) {
	a := &assembler{labels: make(map[string]int)}
	a.s.Init(r)
	a.s.Mode = scanner.ScanIdents | scanner.ScanInts
	a.s.Whitespace = 1<<' ' | 1<<'\t' | 1<<'\r'
	a.s.Error = func(s *scanner.Scanner, msg string) {
		a.errorf(s.Pos(), "%s", msg)
	}
	for len(a.errs) < maxErrors && a.statement() {
	}
	a.resolve()
	if len(a.errs) > 0 {
		return nil, errors.New(strings.Join(a.errs, "\n"))
	}
	return a.image, nil
}

// AssembleString assembles the program in src.
//
func AssembleString(src string) ([]byte, error) {
	return Assemble(strings.NewReader(src))
}

func (a *assembler) errorf(pos scanner.Position, format string, args ...interface{}) {
	a.errs = append(a.errs, pos.String()+": "+fmt.Sprintf(format, args...))
}

func (a *assembler) next() rune {
	if a.back {
		a.back = false
		return a.tok
	}
	a.tok = a.s.Scan()
	a.text = a.s.TokenText()
	a.pos = a.s.Position
	if a.tok == ';' {
		for c := a.s.Peek(); c != '\n' && c != scanner.EOF; c = a.s.Peek() {
			a.s.Next()
		}
		return a.next()
	}
	return a.tok
}

// statement assembles a single line. It returns false at EOF.
//
func (a *assembler) statement() bool {
	t := a.next()
	if t == scanner.Ident {
		name, pos := a.text, a.pos
		if a.next() != ':' {
			a.back = true
			return a.instr(name, pos)
		}
		a.define(name, pos)
		t = a.next()
	}
	switch t {
	case scanner.EOF:
		return false
	case '\n':
		return true
	case '.':
		return a.directive()
	case scanner.Ident:
		return a.instr(a.text, a.pos)
	}
	a.errorf(a.pos, "unexpected %s", scanner.TokenString(t))
	return a.skipLine()
}

func (a *assembler) define(name string, pos scanner.Position) {
	if _, ok := a.labels[name]; ok {
		a.errorf(pos, "label %s redefined", name)
		return
	}
	a.labels[name] = a.addr
}

func (a *assembler) instr(name string, pos scanner.Position) bool {
	op, ok := LookupOpcode(name)
	if !ok {
		a.errorf(pos, "unknown instruction %s", name)
		return a.skipLine()
	}
	var operand uint64
	switch t := a.next(); t {
	case scanner.Int:
		if !op.HasOperand() {
			a.errorf(a.pos, "%s takes no operand", op)
			return a.skipLine()
		}
		v, ok := a.number(0xf)
		if !ok {
			return a.skipLine()
		}
		operand = v
	case scanner.Ident:
		if !op.HasOperand() {
			a.errorf(a.pos, "%s takes no operand", op)
			return a.skipLine()
		}
		a.fixups = append(a.fixups, fixup{addr: a.addr, label: a.text, pos: a.pos})
	default:
		a.back = true
		if op.HasOperand() {
			a.errorf(pos, "missing operand for %s", op)
			return a.skipLine()
		}
	}
	a.emit(op.Instr(uint8(operand)))
	return a.end()
}

func (a *assembler) directive() bool {
	if a.next() != scanner.Ident {
		a.errorf(a.pos, "expected directive, found %s", scanner.TokenString(a.tok))
		return a.skipLine()
	}
	switch d := a.text; d {
	case "byte":
		for {
			if a.next() != scanner.Int {
				a.errorf(a.pos, "expected number, found %s", scanner.TokenString(a.tok))
				return a.skipLine()
			}
			v, ok := a.number(0xff)
			if !ok {
				return a.skipLine()
			}
			a.emit(byte(v))
			if a.next() != ',' {
				a.back = true
				return a.end()
			}
		}
	case "org":
		if a.next() != scanner.Int {
			a.errorf(a.pos, "expected address, found %s", scanner.TokenString(a.tok))
			return a.skipLine()
		}
		v, ok := a.number(MaxImageSize - 1)
		if !ok {
			return a.skipLine()
		}
		a.addr = int(v)
		return a.end()
	default:
		a.errorf(a.pos, "unknown directive .%s", d)
		return a.skipLine()
	}
}

// number parses the current Int token and checks that it is <= max.
//
func (a *assembler) number(max uint64) (uint64, bool) {
	v, err := strconv.ParseUint(a.text, 0, 64)
	if err != nil {
		a.errorf(a.pos, "bad number %s", a.text)
		return 0, false
	}
	if v > max {
		a.errorf(a.pos, "value %s out of range [0, %d]", a.text, max)
		return 0, false
	}
	return v, true
}

func (a *assembler) emit(b byte) {
	if a.addr >= MaxImageSize {
		a.errorf(a.pos, "program does not fit in %d bytes", MaxImageSize)
		return
	}
	if a.addr >= len(a.image) {
		a.image = append(a.image, make([]byte, a.addr+1-len(a.image))...)
	}
	a.image[a.addr] = b
	a.addr++
}

// end checks that nothing follows a statement.
//
func (a *assembler) end() bool {
	switch t := a.next(); t {
	case '\n':
		return true
	case scanner.EOF:
		return false
	default:
		a.errorf(a.pos, "expected end of line, found %s", scanner.TokenString(t))
		return a.skipLine()
	}
}

func (a *assembler) skipLine() bool {
	for {
		switch a.next() {
		case '\n':
			return true
		case scanner.EOF:
			return false
		}
	}
}

func (a *assembler) resolve() {
	for _, f := range a.fixups {
		v, ok := a.labels[f.label]
		switch {
		case !ok:
			a.errorf(f.pos, "undefined label %s", f.label)
		case v > 0xf:
			a.errorf(f.pos, "label %s at address %d is out of operand range", f.label, v)
		case f.addr < len(a.image):
			a.image[f.addr] |= byte(v)
		}
	}
}
