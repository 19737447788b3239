// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dcsim_test

import (
	"math"
	"strings"
	"testing"

	"github.com/db47h/dcsim"
	"github.com/db47h/dcsim/parts"
	"github.com/db47h/dcsim/simtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_errors(t *testing.T) {
	td := []struct {
		name  string
		build func(b *dcsim.Builder)
		cfg   dcsim.Config
		err   string
	}{
		{"width mismatch", func(b *dcsim.Builder) {
			d := simtest.NewDriver(b, "d", 8)
			b.Bus("main", 4).Attach(d.Q)
		}, dcsim.Config{Timestep: 1}, "bus main: 8 pin group at offset 0 does not fit a 4 bit bus"},
		{"bad offset", func(b *dcsim.Builder) {
			d := simtest.NewDriver(b, "d", 4)
			b.Bus("main", 8).AttachAt(5, d.Q)
		}, dcsim.Config{Timestep: 1}, "bus main: 4 pin group at offset 5 does not fit a 8 bit bus"},
		{"empty group", func(b *dcsim.Builder) {
			b.Bus("main", 8).Attach(nil)
		}, dcsim.Config{Timestep: 1}, "bus main: empty pin group"},
		{"connected twice", func(b *dcsim.Builder) {
			not := parts.NewNot(b, "not")
			b.Node("n").Connect(not.In, not.In)
		}, dcsim.Config{Timestep: 1}, "n: pin not.In connected twice"},
		{"two nets", func(b *dcsim.Builder) {
			not := parts.NewNot(b, "not")
			b.Node("n").Connect(not.In)
			b.Bus("main", 2).AttachAt(1, dcsim.Group{not.In})
		}, dcsim.Config{Timestep: 1}, "main: pin not.In already connected to n"},
		{"two bus lines", func(b *dcsim.Builder) {
			d := simtest.NewDriver(b, "d", 2)
			b.Bus("a", 2).Attach(d.Q)
			b.Node("n").Connect(d.Q[1])
		}, dcsim.Config{Timestep: 1}, "n: pin d.Q[1] already connected to a[1]"},
		{"dangling", func(b *dcsim.Builder) {
			b.Node("n").Connect(dcsim.PinID(42))
		}, dcsim.Config{Timestep: 1}, "n: dangling pin reference 42"},
		{"not mounted", func(b *dcsim.Builder) {
			b.Socket("x").Pin("In", dcsim.Input)
		}, dcsim.Config{Timestep: 1}, "component x was never mounted"},
		{"duplicate component", func(b *dcsim.Builder) {
			parts.NewNot(b, "not")
			parts.NewNot(b, "not")
		}, dcsim.Config{Timestep: 1}, "duplicate component name not"},
		{"duplicate pin", func(b *dcsim.Builder) {
			s := b.Socket("x")
			s.Pin("In", dcsim.Input)
			s.Pin("In", dcsim.Input)
			s.Mount(dcsim.ComponentFunc("x", func(*dcsim.Simulation) {}))
		}, dcsim.Config{Timestep: 1}, "x: duplicate pin name In"},
		{"duplicate net", func(b *dcsim.Builder) {
			b.Node("n")
			b.Bus("n", 4)
		}, dcsim.Config{Timestep: 1}, "duplicate net name n"},
		{"bus width", func(b *dcsim.Builder) {
			b.Bus("wide", 65)
		}, dcsim.Config{Timestep: 1}, "bus wide: invalid width 65"},
		{"zero timestep", func(b *dcsim.Builder) {}, dcsim.Config{}, "invalid time step 0"},
		{"negative timestep", func(b *dcsim.Builder) {}, dcsim.Config{Timestep: -1e-3}, "invalid time step -0.001"},
		{"NaN timestep", func(b *dcsim.Builder) {}, dcsim.Config{Timestep: math.NaN()}, "invalid time step NaN"},
		{"infinite start", func(b *dcsim.Builder) {}, dcsim.Config{Start: math.Inf(1), Timestep: 1}, "invalid start time +Inf"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			b := dcsim.NewBuilder()
			d.build(b)
			s, err := b.Build(d.cfg)
			require.Error(t, err)
			assert.Nil(t, s)
			require.IsType(t, &dcsim.ConfigError{}, err)
			assert.Equal(t, d.err, err.Error())
		})
	}
}

func TestBuild_allErrors(t *testing.T) {
	b := dcsim.NewBuilder()
	not := parts.NewNot(b, "not")
	b.Node("n").Connect(not.In, not.In)
	b.Bus("n", 0)
	_, err := b.Build(dcsim.Config{})
	require.Error(t, err)
	cerr, ok := err.(*dcsim.ConfigError)
	require.True(t, ok)
	assert.Len(t, cerr.Errs, 4)
	lines := strings.Split(err.Error(), "\n")
	assert.Equal(t, "4 wiring errors:", lines[0])
	assert.Equal(t, "\tn: pin not.In connected twice", lines[1])
}

func TestBuild_frozen(t *testing.T) {
	b := dcsim.NewBuilder()
	not := parts.NewNot(b, "not")
	simtest.Build(t, b)
	assert.Panics(t, func() { b.Node("n") })
	assert.Panics(t, func() { b.Socket("x") })
	assert.Panics(t, func() { b.Build(dcsim.Config{Timestep: 1}) })
	_ = not
}

func TestBuilder_lookup(t *testing.T) {
	b := dcsim.NewBuilder()
	l := parts.NewLatch(b, "mar", 8)
	g, err := b.Lookup("mar.Q[4..7]")
	require.NoError(t, err)
	assert.Equal(t, l.Q.Slice(4, 8), g)
	_, err = b.Lookup("mar.Q[4..")
	assert.Error(t, err)
}
