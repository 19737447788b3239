// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sap1

import "strings"

// Opcode is a 4 bit SAP-1 instruction opcode. An instruction byte holds the
// opcode in its high nibble and a 4 bit operand in its low nibble.
//
type Opcode uint8

// Instruction set.
//
const (
	NOP Opcode = iota // no operation
	LDA               // load A from memory
	LDB               // load B from memory
	STR               // store A to memory
	ADD               // A = A + B
	SUB               // A = A - B
	CLR               // clear registers
	OUT               // load output register from A
	LDM               // load A from memory at address A
	JPZ               // jump if zero
	JPC               // jump if carry
	JMP               // jump
	STM               // store to memory at address A
	MOV               // B = A
	SFT               // shift A
	HLT               // halt
)

var mnemonics = [...]string{
	NOP: "NOP", LDA: "LDA", LDB: "LDB", STR: "STR",
	ADD: "ADD", SUB: "SUB", CLR: "CLR", OUT: "OUT",
	LDM: "LDM", JPZ: "JPZ", JPC: "JPC", JMP: "JMP",
	STM: "STM", MOV: "MOV", SFT: "SFT", HLT: "HLT",
}

func (op Opcode) String() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	}
	return "???"
}

// HasOperand returns true if the instruction uses its operand nibble as a
// memory address.
//
func (op Opcode) HasOperand() bool {
	switch op {
	case LDA, LDB, STR, JPZ, JPC, JMP:
		return true
	}
	return false
}

// Instr encodes an instruction byte.
//
func (op Opcode) Instr(operand uint8) byte {
	return byte(op)<<4 | operand&0xf
}

// Decode splits an instruction byte into its opcode and operand.
//
func Decode(b byte) (Opcode, uint8) {
	return Opcode(b >> 4), b & 0xf
}

// LookupOpcode returns the opcode for the given mnemonic, case insensitive.
//
func LookupOpcode(mnemonic string) (Opcode, bool) {
	m := strings.ToUpper(mnemonic)
	for i, s := range mnemonics {
		if s == m {
			return Opcode(i), true
		}
	}
	return 0, false
}
