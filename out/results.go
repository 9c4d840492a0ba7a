// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/goxfem/mfem"
)

// NodalValues evaluates the field at the nodes of each cell, seen from inside the cell.
//
//	Output: V[ncells][nverts][qdim]
func NodalValues(f *Field) (V [][][]float64, err error) {
	m := f.Mf.Mesh()
	q := f.Mf.Qdim()
	ev := mfem.NewEvaluator(f.Mf)
	V = make([][][]float64, len(m.Cells))
	for _, c := range m.Cells {
		ctx := mfem.NewCellCtx(m, c.Id)
		V[c.Id] = utl.Alloc(c.Gt.Nverts, q)
		for j := 0; j < c.Gt.Nverts; j++ {
			ctx.SetXref(c.Gt.NatCoords[j])
			if err = ev.At(c.Id, ctx, false); err != nil {
				return
			}
			ev.Field(f.U, V[c.Id][j], nil)
		}
	}
	return
}

// pdataWrite writes the field at the points written by topology
func pdataWrite(buf *bytes.Buffer, f *Field) (err error) {
	V, err := NodalValues(f)
	if err != nil {
		return
	}
	q := f.Mf.Qdim()
	ncomp := q
	if q == 2 {
		ncomp = 3 // VTK vectors have 3 components
	}
	io.Ff(buf, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"%d\" format=\"ascii\">\n", f.Name, ncomp)
	for _, c := range f.Mf.Mesh().Cells {
		for _, j := range vtkNodes(c.Gt) {
			for k := 0; k < ncomp; k++ {
				var v float64
				if k < q {
					v = V[c.Id][j][k]
				}
				io.Ff(buf, "%23.15e ", v)
			}
		}
	}
	io.Ff(buf, "\n</DataArray>\n")
	return
}

// Along samples the field at npts points equally spaced on the segment from xa to xb.
//
//	Output: dist[npts] distances to xa; vals[npts][qdim]
func Along(f *Field, xa, xb []float64, npts int) (dist []float64, vals [][]float64, err error) {
	if npts < 2 {
		return nil, nil, chk.Err("sampling along a line requires at least 2 points; got %d", npts)
	}
	if len(xa) != len(xb) || len(xa) != f.Mf.Mesh().Ndim {
		return nil, nil, chk.Err("end points of line must have %d coordinates", f.Mf.Mesh().Ndim)
	}
	var L float64
	for i := range xa {
		L += (xb[i] - xa[i]) * (xb[i] - xa[i])
	}
	L = math.Sqrt(L)
	dist = utl.LinSpace(0, L, npts)
	vals = make([][]float64, npts)
	x := make([]float64, len(xa))
	for k := 0; k < npts; k++ {
		t := float64(k) / float64(npts-1)
		for i := range xa {
			x[i] = xa[i] + t*(xb[i]-xa[i])
		}
		if vals[k], err = mfem.EvalAtPoint(f.Mf, f.U, x); err != nil {
			return
		}
	}
	return
}

// Component extracts component k of the sampled values
func Component(vals [][]float64, k int) (res []float64) {
	res = make([]float64, len(vals))
	for i, v := range vals {
		res[i] = v[k]
	}
	return
}
