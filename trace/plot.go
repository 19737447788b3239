// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// trace height, relative to the distance between two traces
const traceHeight = 0.8

// norm returns the sample value scaled to [0, 1].
//
func (s Sample) norm(width int) float64 {
	if width >= 64 {
		return float64(s.Value) / float64(^uint64(0))
	}
	return float64(s.Value) / float64(uint64(1)<<uint(width)-1)
}

// Plot returns a timing diagram of the recording, one trace per signal, the
// first signal at the top. Bus values are scaled to the trace height.
//
func (r *Recorder) Plot() (*plot.Plot, error) {
	if r.Len() == 0 {
		return nil, errors.New("trace: nothing recorded")
	}
	p := plot.New()
	p.Title.Text = "Timing diagram"
	p.X.Label.Text = "t (s)"
	n := len(r.sigs)
	ticks := make([]plot.Tick, n)
	for i, sig := range r.sigs {
		off := float64(n - 1 - i)
		xys := make(plotter.XYs, r.Len())
		for j, smp := range r.data[i] {
			xys[j].X = r.t[j]
			xys[j].Y = off + traceHeight*smp.norm(sig.Width)
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrapf(err, "trace: %s", sig.Name)
		}
		l.StepStyle = plotter.PostStep
		l.Color = plotutil.Color(i)
		p.Add(l)
		ticks[i] = plot.Tick{Value: off + traceHeight/2, Label: sig.Name}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Min = -0.2
	p.Y.Max = float64(n)
	return p, nil
}

// WritePlot renders the timing diagram in the given format: "png", "svg",
// "pdf", etc.
//
func (r *Recorder) WritePlot(w io.Writer, format string) error {
	p, err := r.Plot()
	if err != nil {
		return err
	}
	h := vg.Length(len(r.sigs))*vg.Inch/2 + vg.Inch
	wt, err := p.WriterTo(10*vg.Inch, h, format)
	if err != nil {
		return errors.Wrap(err, "trace")
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "trace")
}
