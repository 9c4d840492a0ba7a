// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mim implements integration methods on meshes (mesh_im), including methods adapted to
// cells cut by level sets
package mim

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/shp"
)

// Integrator gives integration points on cells and faces.
//
//	Ipoints:     R in reference coordinates of the cell; W reference weight (to be multiplied by J)
//	FaceIpoints: R in reference coordinates of the cell; W already includes the face measure
type Integrator interface {
	Mesh() *inp.Mesh
	Ipoints(cid int) []shp.Ipoint
	FaceIpoints(cid, fid int) ([]shp.Ipoint, error)
	Version() int
}

// RuleName returns the name of the Gauss rule of given order suited to gt
func RuleName(gt *shp.GeoTrans, order int) string {
	switch {
	case gt.Dim == 1:
		return io.Sf("IM_GAUSS1D(%d)", order)
	case gt.Simplex && gt.Dim == 2:
		return io.Sf("IM_TRIANGLE(%d)", order)
	case gt.Simplex && gt.Dim == 3:
		return io.Sf("IM_TETRAHEDRON(%d)", order)
	}
	return io.Sf("IM_GAUSS_PARALLELEPIPED(%d,%d)", gt.Dim, order)
}

// MeshIm holds one integration rule per cell
type MeshIm struct {
	mesh    *inp.Mesh
	order   int               // order of default rules
	rules   []*shp.IntegRule  // [ncells] rules
	version int
}

// NewMeshIm returns a new integration method with Gauss rules of given order on all cells
func NewMeshIm(m *inp.Mesh, order int) (o *MeshIm, err error) {
	if order < 0 {
		return nil, chk.Err("order of integration must be non-negative; got %d", order)
	}
	o = &MeshIm{mesh: m, order: order}
	err = o.adapt()
	return
}

// adapt sets default rules on new cells
func (o *MeshIm) adapt() (err error) {
	for cid := len(o.rules); cid < len(o.mesh.Cells); cid++ {
		var rule *shp.IntegRule
		if rule, err = o.mesh.Reg.IntegRule(RuleName(o.mesh.GeoTrans(cid), o.order)); err != nil {
			return
		}
		o.rules = append(o.rules, rule)
	}
	o.version++
	return
}

// SetRule sets the rule with given name on the cells of a region (nil => all cells)
func (o *MeshIm) SetRule(r *inp.Region, name string) (err error) {
	rule, err := o.mesh.Reg.IntegRule(name)
	if err != nil {
		return
	}
	cells := o.allCells(r)
	for _, cid := range cells {
		gt := o.mesh.GeoTrans(cid)
		if rule.Dim != gt.Dim || (rule.Simplex != gt.Simplex && gt.Dim > 1) {
			return chk.Err("rule %q cannot be used on cell %d of type %q", name, cid, gt.Name)
		}
	}
	if err = o.adapt(); err != nil {
		return
	}
	for _, cid := range cells {
		o.rules[cid] = rule
	}
	return
}

// Rule returns the rule of cell cid
func (o *MeshIm) Rule(cid int) *shp.IntegRule {
	if cid >= len(o.rules) {
		if err := o.adapt(); err != nil {
			chk.Panic("cannot set integration rule on new cell %d:\n%v", cid, err)
		}
	}
	return o.rules[cid]
}

// Mesh returns the mesh
func (o *MeshIm) Mesh() *inp.Mesh { return o.mesh }

// Version returns the version number
func (o *MeshIm) Version() int { return o.version }

// Ipoints returns the integration points of cell cid
func (o *MeshIm) Ipoints(cid int) []shp.Ipoint { return o.Rule(cid).Points }

// FaceIpoints returns the integration points on face fid of cell cid
func (o *MeshIm) FaceIpoints(cid, fid int) (ips []shp.Ipoint, err error) {
	gt := o.mesh.GeoTrans(cid)
	nodes := gt.Faces[fid]

	// points
	if gt.Dim == 1 {
		return []shp.Ipoint{{R: append([]float64{}, gt.NatCoords[nodes[0]]...), W: 1}}, nil
	}

	// face transformation and rule
	fgt, err := o.mesh.Reg.GeoTrans(gt.FaceType)
	if err != nil {
		return
	}
	rule, err := o.mesh.Reg.IntegRule(RuleName(fgt, o.Rule(cid).Order))
	if err != nil {
		return
	}
	x := make([][]float64, o.mesh.Ndim)
	pts := o.mesh.FacePoints(cid, fid)
	for i := range x {
		x[i] = make([]float64, len(pts))
		for k, p := range pts {
			x[i][k] = p[i]
		}
	}
	ctx := shp.NewGeoCtx(fgt, x)
	S := make([]float64, fgt.Nverts)
	for _, p := range rule.Points {
		ctx.SetXref(p.R)
		J, e := ctx.J()
		if e != nil {
			return nil, chk.Err("face %d of cell %d is degenerate:\n%v", fid, cid, e)
		}
		fgt.Values(S, p.R)
		R := make([]float64, gt.Dim)
		for k, m := range nodes {
			for i := 0; i < gt.Dim; i++ {
				R[i] += S[k] * gt.NatCoords[m][i]
			}
		}
		ips = append(ips, shp.Ipoint{R: R, W: p.W * J})
	}
	return
}

// allCells returns the cells of region r or all cells if r == nil
func (o *MeshIm) allCells(r *inp.Region) []int {
	if r == nil {
		return o.mesh.AllCells().Cells()
	}
	return r.Cells()
}
