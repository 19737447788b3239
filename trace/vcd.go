// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
)

// vcdID returns the short identifier of signal i: printable ASCII characters
// from '!' to '~', in base 94.
//
func vcdID(i int) string {
	var b []byte
	for {
		b = append(b, byte('!'+i%94))
		i /= 94
		if i == 0 {
			return string(b)
		}
		i--
	}
}

func vcdValue(smp Sample, width int) string {
	b := make([]byte, 0, width+1)
	if width > 1 {
		b = append(b, 'b')
	}
	for i := width - 1; i >= 0; i-- {
		b = append(b, byte(smp.Level(i).Rune()))
	}
	if width > 1 {
		b = append(b, ' ')
	}
	return string(b)
}

// WriteVCD writes the recording as a Value Change Dump, readable by
// waveform viewers like GTKWave. Times are written in nanoseconds.
//
func (r *Recorder) WriteVCD(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "$version dcsim $end")
	fmt.Fprintln(bw, "$timescale 1 ns $end")
	fmt.Fprintln(bw, "$scope module top $end")
	for i, sig := range r.sigs {
		if sig.Node {
			fmt.Fprintf(bw, "$var wire 1 %s %s $end\n", vcdID(i), sig.Net)
		} else {
			fmt.Fprintf(bw, "$var wire %d %s %s [%d:%d] $end\n", sig.Width, vcdID(i), sig.Net, sig.Lo+sig.Width-1, sig.Lo)
		}
	}
	fmt.Fprintln(bw, "$upscope $end")
	fmt.Fprintln(bw, "$enddefinitions $end")

	for j, t := range r.t {
		ns := int64(math.Round(t * 1e9))
		if j == 0 {
			fmt.Fprintf(bw, "#%d\n$dumpvars\n", ns)
			for i, sig := range r.sigs {
				fmt.Fprintf(bw, "%s%s\n", vcdValue(r.data[i][0], sig.Width), vcdID(i))
			}
			fmt.Fprintln(bw, "$end")
			continue
		}
		stamped := false
		for i, sig := range r.sigs {
			smp := r.data[i][j]
			if smp == r.data[i][j-1] {
				continue
			}
			if !stamped {
				fmt.Fprintf(bw, "#%d\n", ns)
				stamped = true
			}
			fmt.Fprintf(bw, "%s%s\n", vcdValue(smp, sig.Width), vcdID(i))
		}
	}
	return errors.Wrap(bw.Flush(), "trace")
}
