// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01")

	reg := NewRegistry()
	for name, gt := range reg.geos {
		io.Pfyel("--------------------------------- %-6s---------------------------------\n", name)
		CheckShape(tst, gt, 1e-15, chk.Verbose)
		r := []float64{0.2, 0.3, 0.1}
		CheckDSdR(tst, gt, r[:gt.Dim], 1e-8, chk.Verbose)
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02. J, B and caching on a stretched quadrilateral")

	reg := NewRegistry()
	gt, err := reg.GeoTrans("qua4")
	if err != nil {
		tst.Errorf("%v", err)
		return
	}

	// [10,13] × [8,9]
	x := [][]float64{
		{10, 13, 10, 13},
		{8, 8, 9, 9},
	}
	ctx := NewGeoCtx(gt, x)
	ctx.SetXref([]float64{0.5, 0.5})
	J, err := ctx.J()
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "J", 1e-15, J, 3.0)
	chk.Array(tst, "y", 1e-15, ctx.Xreal(), []float64{11.5, 8.5})

	// B = K⁻ᵀ = diag(1/3, 1)
	B, _ := ctx.B()
	chk.Array(tst, "B", 1e-15, B, []float64{1.0 / 3.0, 0, 0, 1})

	// real gradient of S0 = (1-r)(1-s) @ (0.5,0.5) => dr = (-0.5,-0.5)
	g := make([]float64, 2)
	ctx.GradReal(g, []float64{-0.5, -0.5})
	chk.Array(tst, "g", 1e-15, g, []float64{-0.5 / 3.0, -0.5})

	// changing nodes invalidates the cache
	x[0][1], x[0][3] = 16, 16
	ctx.SetNodes(x)
	J, _ = ctx.J()
	chk.Float64(tst, "J (after SetNodes)", 1e-15, J, 6.0)
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. manifold (N > P) and singular Jacobian")

	reg := NewRegistry()
	gt, _ := reg.GeoTrans("lin2")

	// segment from (0,0) to (3,4) embedded in 2D
	ctx := NewGeoCtx(gt, [][]float64{{0, 3}, {0, 4}})
	ctx.SetXref([]float64{0.25})
	J, err := ctx.J()
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "J", 1e-15, J, 5.0)
	B, _ := ctx.B()
	chk.Array(tst, "B", 1e-15, B, []float64{3.0 / 25.0, 4.0 / 25.0})

	// triangle embedded in 3D
	tri, _ := reg.GeoTrans("tri3")
	ctx = NewGeoCtx(tri, [][]float64{{0, 2, 0}, {0, 0, 2}, {1, 1, 1}})
	ctx.SetXref([]float64{0.1, 0.1})
	J, _ = ctx.J()
	chk.Float64(tst, "J (tri3 in 3D)", 1e-15, J, 4.0)

	// degenerate triangle => error
	ctx = NewGeoCtx(tri, [][]float64{{0, 1, 2}, {0, 1, 2}})
	ctx.SetXref([]float64{0.1, 0.1})
	_, err = ctx.J()
	if err == nil {
		tst.Errorf("degenerate element should fail")
	}
}

func Test_shape04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape04. inverse map")

	reg := NewRegistry()
	gt, _ := reg.GeoTrans("qua4")
	x := [][]float64{
		{0, 2, 0.2, 2.5},
		{0, 0.1, 1, 1.5},
	}
	rcorrect := []float64{0.3, 0.7}
	ctx := NewGeoCtx(gt, x)
	ctx.SetXref(rcorrect)
	y := append([]float64{}, ctx.Xreal()...)
	r, err := InvMap(gt, x, y)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Array(tst, "r", 1e-10, r, rcorrect)
	if !IsInside(gt, r, 1e-10) {
		tst.Errorf("point should be inside")
	}
	if IsInside(gt, []float64{1.2, 0.5}, 1e-10) {
		tst.Errorf("point should be outside")
	}
	tet, _ := reg.GeoTrans("tet4")
	if IsInside(tet, []float64{0.5, 0.5, 0.1}, 1e-10) {
		tst.Errorf("point should be outside of the tetrahedron")
	}
}

func Test_shape05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape05. simplexification covers the reference element")

	reg := NewRegistry()
	for _, name := range []string{"lin2", "tri3", "tri6", "qua4", "tet4", "hex8"} {
		gt, _ := reg.GeoTrans(name)
		vol := 0.0
		for _, sx := range ReferenceSimplices(gt) {
			vol += SimplexVolumeFactor(sx)
		}
		nfact := 1.0
		for i := 2; i <= gt.Dim; i++ {
			nfact *= float64(i)
		}
		want := nfact
		if gt.Simplex {
			want = 1
		}
		io.Pforan("%-5s nsimplices=%d  Σvf=%g\n", name, len(Simplexify(gt)), vol)
		chk.Float64(tst, name, 1e-14, vol, want)
	}
}
