// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Curve holds the data of one curve (X vs Y)
type Curve struct {
	Label   string    // legend
	X       []float64 // x-values
	Y       []float64 // y-values
	Markers bool      // draw markers instead of a line
}

// XYs implements plotter.XYer
func (o *Curve) XYs() (xys plotter.XYs, err error) {
	if len(o.X) != len(o.Y) {
		return nil, chk.Err("lengths of x- and y-series are different. len(x)=%d, len(y)=%d", len(o.X), len(o.Y))
	}
	xys = make(plotter.XYs, len(o.X))
	for i := range o.X {
		xys[i].X, xys[i].Y = o.X[i], o.Y[i]
	}
	return
}

// Figure holds the labels and size of a figure
type Figure struct {
	Title string    // title
	Xlbl  string    // x-axis label
	Ylbl  string    // y-axis label
	W, H  vg.Length // size; zero => 12cm x 9cm
}

// PlotCurves draws the curves and saves the figure to dirout/fname.
// The format is given by the extension of fname; e.g. "opening.png" or "opening.svg"
func PlotCurves(dirout, fname string, fig Figure, curves ...*Curve) (err error) {
	if len(curves) == 0 {
		return chk.Err("there are no curves to plot in %q", fname)
	}
	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.Xlbl
	p.Y.Label.Text = fig.Ylbl
	p.Add(plotter.NewGrid())
	for i, c := range curves {
		xys, e := c.XYs()
		if e != nil {
			return e
		}
		if c.Markers {
			s, e := plotter.NewScatter(xys)
			if e != nil {
				return e
			}
			s.GlyphStyle.Color = plotutil.Color(i)
			s.GlyphStyle.Shape = plotutil.Shape(i)
			p.Add(s)
			if c.Label != "" {
				p.Legend.Add(c.Label, s)
			}
			continue
		}
		l, e := plotter.NewLine(xys)
		if e != nil {
			return e
		}
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		if c.Label != "" {
			p.Legend.Add(c.Label, l)
		}
	}
	w, h := fig.W, fig.H
	if w == 0 || h == 0 {
		w, h = 12*vg.Centimeter, 9*vg.Centimeter
	}
	if dirout != "" {
		if err = os.MkdirAll(dirout, 0777); err != nil {
			return chk.Err("cannot create directory %q:\n%v", dirout, err)
		}
	}
	if err = p.Save(w, h, filepath.Join(dirout, fname)); err != nil {
		return chk.Err("cannot save figure %q:\n%v", fname, err)
	}
	io.Pfblue2("file <%s> written\n", filepath.Join(dirout, fname))
	return
}
