// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim

// Level is the logic level of a pin or of a resolved line.
//
type Level uint8

// Logic levels.
//
// Floating is the level of a line with no active driver. Undefined is the
// level of a line whose drivers disagree. Both read as Low.
//
const (
	Low Level = iota
	High
	Floating
	Undefined
)

// LevelOf converts a boolean to Low or High.
//
func LevelOf(b bool) Level {
	if b {
		return High
	}
	return Low
}

// Bool returns true if l is High. Floating and Undefined read as false.
//
func (l Level) Bool() bool { return l == High }

// Defined returns true if l is either Low or High.
//
func (l Level) Defined() bool { return l <= High }

// Not returns the logical complement of l. Floating and Undefined read as
// Low, so their complement is High.
//
func (l Level) Not() Level { return LevelOf(!l.Bool()) }

// Rune returns a one character representation of l: '0', '1', 'z' or 'x'.
//
func (l Level) Rune() rune {
	switch l {
	case Low:
		return '0'
	case High:
		return '1'
	case Floating:
		return 'z'
	}
	return 'x'
}

func (l Level) String() string {
	switch l {
	case Low:
		return "Low"
	case High:
		return "High"
	case Floating:
		return "Floating"
	}
	return "Undefined"
}

// Role is the fixed electrical role of a pin.
//
type Role uint8

// Pin roles.
//
// Ground and Source pins always drive their line. Output pins drive their
// line once set by their component, and float until its first evaluation.
// TriState and Bidirectional pins drive only while enabled; a disabled
// Bidirectional pin behaves as an Input. Input pins never drive.
//
const (
	Input Role = iota
	Output
	Ground
	Source
	TriState
	Bidirectional
)

func (r Role) String() string {
	switch r {
	case Input:
		return "input"
	case Output:
		return "output"
	case Ground:
		return "ground"
	case Source:
		return "source"
	case TriState:
		return "tri-state"
	case Bidirectional:
		return "bidirectional"
	}
	return "unknown"
}

// switched returns true for roles whose drive can be turned on and off.
func (r Role) switched() bool {
	return r == TriState || r == Bidirectional
}
