// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/out"
)

// WriteVTU writes the computed and exact displacements (and the pressure) to dir/RootFn.vtu
func (o *CrackProblem) WriteVTU(dir string) (err error) {
	if o.U == nil {
		return chk.Err("crack problem must be solved first")
	}
	fields := []*out.Field{
		{Name: "u", Mf: o.MfU, U: o.U},
		{Name: "u_exact", Mf: o.MfExact, U: o.UExact},
	}
	if o.Mixed {
		fields = append(fields, &out.Field{Name: "p", Mf: o.MfP, U: o.P})
	}
	return out.WriteVTU(dir, o.RootFn, fields...)
}

// PlotOpening plots the computed and exact crack openings to dir/fname
func (o *CrackProblem) PlotOpening(dir, fname string, npts int) (err error) {
	X, jump, exact, err := o.CrackOpening(npts)
	if err != nil {
		return
	}
	fig := out.Figure{
		Title: io.Sf("crack opening: mode %d, NX=%d", o.Mode, o.Nx),
		Xlbl:  "X",
		Ylbl:  "jump of u_y",
	}
	return out.PlotCurves(dir, fname, fig,
		&out.Curve{Label: "computed", X: X, Y: jump, Markers: true},
		&out.Curve{Label: "exact", X: X, Y: exact},
	)
}
