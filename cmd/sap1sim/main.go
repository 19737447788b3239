// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command sap1sim runs the SAP-1 simulation.
//
//	sap1sim --end 0.5 --program prog.asm --trace CLK,RC1,main --png trace.png
//
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/db47h/dcsim/sap1"
	"github.com/db47h/dcsim/trace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type options struct {
	cfg     sap1.Config
	program string
	signals string
	png     string
	html    string
	vcd     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	o := options{cfg: sap1.DefaultConfig()}
	cmd := &cobra.Command{
		Use:   "sap1sim",
		Short: "SAP-1 computer simulator",
		Long: `Sap1sim runs a discrete-time simulation of a SAP-1 8-bit computer.
The program is assembled and loaded into the EEPROM, then the machine runs
from the start time to the end time in fixed time steps.
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cmd.ErrOrStderr(), &o)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&o.cfg.Start, "start", o.cfg.Start, "start time in seconds")
	f.Float64Var(&o.cfg.End, "end", o.cfg.End, "end time in seconds")
	f.Float64Var(&o.cfg.Timestep, "timestep", o.cfg.Timestep, "time step in seconds")
	f.Float64Var(&o.cfg.Frequency, "freq", o.cfg.Frequency, "clock frequency in Hz")
	f.StringVar(&o.program, "program", "", "assembly source file (default: built-in demo program)")
	f.StringVar(&o.signals, "trace", "CLK,RC1,RC2,RC3,RC4,RC5", "comma separated list of signals to record")
	f.StringVar(&o.png, "png", "", "write the timing diagram to `file` (.png, .svg or .pdf)")
	f.StringVar(&o.html, "html", "", "write an interactive timing chart to `file`")
	f.StringVar(&o.vcd, "vcd", "", "write a value change dump to `file`")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log the machine state on every clock edge")
	return cmd
}

func loadProgram(name string) ([]byte, error) {
	if name == "" {
		return sap1.DefaultImage(), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := sap1.Assemble(f)
	return img, errors.Wrap(err, name)
}

func run(ctx context.Context, stderr io.Writer, o *options) error {
	lvl := slog.LevelInfo
	if o.verbose {
		lvl = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	img, err := loadProgram(o.program)
	if err != nil {
		return err
	}
	m, err := sap1.New(o.cfg)
	if err != nil {
		return err
	}
	if err = m.Load(img); err != nil {
		return err
	}
	sigs, err := trace.ParseList(m.Sim, o.signals)
	if err != nil {
		return err
	}
	rec := trace.NewRecorder(sigs...)
	m.Sim.Observe(rec)
	m.Sim.Observe(trace.FaultLogger(log))
	m.Sim.Observe(m.Debug(log))

	log.Info("starting", "program", len(img), "ticks", m.Sim.TicksUntil(o.cfg.End))
	err = m.Run(ctx)
	log.Info("stopped",
		"ticks", m.Sim.Ticks(),
		"t", m.Sim.Time(),
		"pc", m.PC.Value(),
		"ir", m.IR.Value(),
		"faults", m.Sim.TotalFaults())
	if err != nil {
		return err
	}

	if o.png != "" {
		format := strings.TrimPrefix(filepath.Ext(o.png), ".")
		if err = writeFile(o.png, func(w io.Writer) error { return rec.WritePlot(w, format) }); err != nil {
			return err
		}
	}
	if o.html != "" {
		if err = writeFile(o.html, rec.WriteHTML); err != nil {
			return err
		}
	}
	if o.vcd != "" {
		if err = writeFile(o.vcd, rec.WriteVCD); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(name string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return errors.Wrap(write(f), name)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
