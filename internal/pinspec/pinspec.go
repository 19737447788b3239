// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pinspec parses pin and net specifications.
//
// A specification is a name, optionally followed by a single index or an
// inclusive index range:
//
//	clk
//	mar.Q[3]
//	ir[4..7]
//
package pinspec

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Spec is a parsed pin specification.
//
type Spec struct {
	Name   string
	Lo, Hi int  // inclusive bounds, valid if Ranged is true
	Ranged bool // an index or range was given
}

// Index returns the name of pin i in the group name.
//
func Index(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

// Width returns the number of pins designated by s. It returns 1 for
// specifications without an index.
//
func (s Spec) Width() int {
	if !s.Ranged {
		return 1
	}
	return s.Hi - s.Lo + 1
}

// Names expands s into individual pin names.
//
//	Parse("bus[0..2]").Names() // []string{"bus[0]", "bus[1]", "bus[2]"}
//
func (s Spec) Names() []string {
	if !s.Ranged {
		return []string{s.Name}
	}
	r := make([]string, 0, s.Width())
	for i := s.Lo; i <= s.Hi; i++ {
		r = append(r, Index(s.Name, i))
	}
	return r
}

func (s Spec) String() string {
	switch {
	case !s.Ranged:
		return s.Name
	case s.Lo == s.Hi:
		return Index(s.Name, s.Lo)
	}
	return s.Name + "[" + strconv.Itoa(s.Lo) + ".." + strconv.Itoa(s.Hi) + "]"
}

// Parse parses a pin specification.
//
func Parse(in string) (Spec, error) {
	spec := strings.TrimSpace(in)
	i := strings.IndexRune(spec, '[')
	if i < 0 {
		if err := checkName(in, spec); err != nil {
			return Spec{}, err
		}
		return Spec{Name: spec}, nil
	}
	s := Spec{Name: strings.TrimSpace(spec[:i]), Ranged: true}
	if err := checkName(in, s.Name); err != nil {
		return Spec{}, err
	}
	if !strings.HasSuffix(spec, "]") {
		return Spec{}, parseError(in, len(spec), "no terminating ] in bus range")
	}
	r := spec[i+1 : len(spec)-1]
	lo, hi := r, r
	if j := strings.Index(r, ".."); j >= 0 {
		lo, hi = r[:j], r[j+2:]
	}
	var err error
	if s.Lo, err = strconv.Atoi(strings.TrimSpace(lo)); err != nil || s.Lo < 0 {
		return Spec{}, parseError(in, i+1, "invalid bus index "+strconv.Quote(lo))
	}
	if s.Hi, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil || s.Hi < 0 {
		return Spec{}, parseError(in, i+1, "invalid bus index "+strconv.Quote(hi))
	}
	if s.Hi < s.Lo {
		return Spec{}, parseError(in, i+1, "empty bus range")
	}
	return s, nil
}

func checkName(in, name string) error {
	if name == "" {
		return parseError(in, 0, "empty pin name")
	}
	if i := strings.IndexAny(name, " \t,=]"); i >= 0 {
		return parseError(in, i, "unexpected character in pin name")
	}
	return nil
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
