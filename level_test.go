// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim_test

import (
	"testing"

	"github.com/db47h/dcsim"
)

func TestLevel(t *testing.T) {
	td := []struct {
		l       dcsim.Level
		b       bool
		defined bool
		not     dcsim.Level
		r       rune
		s       string
	}{
		{dcsim.Low, false, true, dcsim.High, '0', "Low"},
		{dcsim.High, true, true, dcsim.Low, '1', "High"},
		{dcsim.Floating, false, false, dcsim.High, 'z', "Floating"},
		{dcsim.Undefined, false, false, dcsim.High, 'x', "Undefined"},
	}
	for _, d := range td {
		if d.l.Bool() != d.b {
			t.Errorf("%v.Bool() = %v, got %v", d.l, d.b, d.l.Bool())
		}
		if d.l.Defined() != d.defined {
			t.Errorf("%v.Defined() = %v, got %v", d.l, d.defined, d.l.Defined())
		}
		if d.l.Not() != d.not {
			t.Errorf("%v.Not() = %v, got %v", d.l, d.not, d.l.Not())
		}
		if d.l.Rune() != d.r {
			t.Errorf("%v.Rune() = %c, got %c", d.l, d.r, d.l.Rune())
		}
		if d.l.String() != d.s {
			t.Errorf("String() = %s, got %s", d.s, d.l.String())
		}
	}
	if dcsim.LevelOf(true) != dcsim.High || dcsim.LevelOf(false) != dcsim.Low {
		t.Error("LevelOf")
	}
}

func TestRole_String(t *testing.T) {
	for r, s := range map[dcsim.Role]string{
		dcsim.Input:         "input",
		dcsim.Output:        "output",
		dcsim.Ground:        "ground",
		dcsim.Source:        "source",
		dcsim.TriState:      "tri-state",
		dcsim.Bidirectional: "bidirectional",
	} {
		if r.String() != s {
			t.Errorf("Role(%d).String() = %s, got %s", r, s, r.String())
		}
	}
}
