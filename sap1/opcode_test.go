// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sap1_test

import (
	"testing"
	"testing/quick"

	"github.com/db47h/dcsim/sap1"
)

func TestOpcode(t *testing.T) {
	for op := sap1.NOP; op <= sap1.HLT; op++ {
		m := op.String()
		got, ok := sap1.LookupOpcode(m)
		if !ok || got != op {
			t.Errorf("LookupOpcode(%q) = %v, %v", m, got, ok)
		}
	}
	if op, ok := sap1.LookupOpcode("jmp"); !ok || op != sap1.JMP {
		t.Errorf("LookupOpcode(\"jmp\") = %v, %v", op, ok)
	}
	if _, ok := sap1.LookupOpcode("JMPX"); ok {
		t.Error("LookupOpcode(\"JMPX\") succeeded")
	}
	if s := sap1.Opcode(16).String(); s != "???" {
		t.Errorf("Opcode(16).String() = %s", s)
	}
}

func TestInstr(t *testing.T) {
	f := func(b byte) bool {
		op, operand := sap1.Decode(b)
		return op.Instr(operand) == b
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
	if b := sap1.LDA.Instr(0x1e); b != 0x1e {
		t.Errorf("LDA.Instr(0x1e) = %#x, expected 0x1e", b)
	}
}
