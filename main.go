// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/fem"
	"github.com/cpmech/goxfem/inp"
	"github.com/spf13/cobra"
)

// crack command flags
var (
	paramFn string // parameters file
	dirout  string // directory for summary and solution files
	enctype string // "json" or "gob"
	vtkDir  string // directory for VTU files; "" => VTK_EXPORT decides
	plotFn  string // figure with the crack opening; "" => none
	npts    int    // number of stations along the crack
	verbose bool   // show messages
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "goxfem",
		Short:        "Goxfem -- Go extended finite element method",
		SilenceUsage: true,
	}
	crack := &cobra.Command{
		Use:   "crack",
		Short: "Solves the crack-tip problem in a square and compares with the exact field",
		Args:  cobra.NoArgs,
		RunE:  runCrack,
	}
	f := crack.Flags()
	f.StringVarP(&paramFn, "param", "p", "", "parameters file (TOML)")
	f.StringVarP(&dirout, "out", "o", "/tmp/goxfem", "directory for summary and solution files")
	f.StringVar(&enctype, "enc", "json", "encoding of output files: json or gob")
	f.StringVar(&vtkDir, "vtk", "", "directory for VTU files")
	f.StringVar(&plotFn, "plot", "", "figure with the crack opening; e.g. /tmp/goxfem/opening.png")
	f.IntVar(&npts, "npts", 20, "number of stations along the crack for --plot")
	f.BoolVarP(&verbose, "verbose", "v", true, "show messages")
	crack.MarkFlagRequired("param")
	root.AddCommand(crack)
	return root
}

func runCrack(cmd *cobra.Command, args []string) (err error) {

	// message
	io.Verbose = verbose
	if verbose {
		io.Pf("\nGoxfem -- Go extended finite element method\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")
		io.Pf("parameters file         param = %q\n", paramFn)
		io.Pf("output directory        out   = %q\n", dirout)
		io.Pf("encoding                enc   = %q\n", enctype)
		io.Pf("directory for VTU files vtk   = %q\n", vtkDir)
		io.Pf("crack opening figure    plot  = %q\n\n", plotFn)
	}

	// problem
	prms, err := inp.ReadParams(paramFn)
	if err != nil {
		return
	}
	o, err := fem.NewCrackProblem(prms)
	if err != nil {
		return
	}
	o.Verbose = verbose

	// run
	if err = o.Init(); err != nil {
		return
	}
	if err = o.Solve(); err != nil {
		return
	}
	e, err := o.ComputeErrors()
	if err != nil {
		return
	}

	// results
	sum, err := fem.NewSummary(o, e)
	if err != nil {
		return
	}
	if err = sum.Save(dirout, enctype, verbose); err != nil {
		return
	}
	if err = o.SaveSol(dirout, enctype); err != nil {
		return
	}
	if vtkDir == "" && o.VtkExport {
		vtkDir = dirout
	}
	if vtkDir != "" {
		if err = o.WriteVTU(vtkDir); err != nil {
			return
		}
	}
	if plotFn != "" {
		dir, fn := filepath.Split(plotFn)
		if err = o.PlotOpening(dir, fn, npts); err != nil {
			return
		}
	}
	return
}
