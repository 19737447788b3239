// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// WriteHTML renders the recording as an interactive HTML page, one zoomable
// step chart per signal. Samples with floating or undefined lines are left
// blank.
//
func (r *Recorder) WriteHTML(w io.Writer) error {
	if r.Len() == 0 {
		return errors.New("trace: nothing recorded")
	}
	x := make([]string, r.Len())
	for i, t := range r.t {
		x[i] = strconv.FormatFloat(t, 'f', -1, 64)
	}

	page := components.NewPage()
	page.PageTitle = "dcsim trace"
	for i, sig := range r.sigs {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{
				Width:  "1200px",
				Height: "220px",
			}),
			charts.WithTitleOpts(opts.Title{
				Title: sig.Name,
			}),
			charts.WithTooltipOpts(opts.Tooltip{
				Show:    opts.Bool(true),
				Trigger: "axis",
			}),
			charts.WithYAxisOpts(opts.YAxis{
				Min: 0,
			}),
			charts.WithDataZoomOpts(opts.DataZoom{
				Type:       "slider",
				Start:      0,
				End:        100,
				XAxisIndex: []int{0},
			}),
		)
		items := make([]opts.LineData, r.Len())
		for j, smp := range r.data[i] {
			if smp.Valid() {
				items[j].Value = smp.Value
			}
		}
		line.SetXAxis(x).AddSeries(sig.Name, items,
			charts.WithLineChartOpts(opts.LineChart{
				Step: "end",
			}),
		)
		page.AddCharts(line)
	}
	return errors.Wrap(page.Render(w), "trace")
}
