// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mim

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/lset"
	"github.com/cpmech/goxfem/shp"
)

// Where selects the part of the domain integrated by a LevelSetIm
type Where int

// integration regions, relative to the primary field of the first level set
const (
	All     Where = iota // whole domain
	Inside               // φ < 0
	Outside              // φ > 0
)

// LevelSetIm integrates over cells cut by level sets using one simplex rule per sub-simplex.
// Sub-simplices having the crack tip as a vertex use the singular rule
type LevelSetIm struct {
	Mls      *lset.MeshLevelSet // decomposition
	Where    Where              // integration region
	Regular  *MeshIm            // rules on uncut cells and faces
	Simplex  *shp.IntegRule     // rule on sub-simplices
	Singular *shp.IntegRule     // rule on sub-simplices touching a singular point; may be nil

	ipts    [][]shp.Ipoint // [ncells] cached points
	mlsVer  int
	ready   bool
	version int
}

// NewLevelSetIm returns a new integration method. singular may be empty
func NewLevelSetIm(mls *lset.MeshLevelSet, where Where, regular *MeshIm, simplex, singular string) (o *LevelSetIm, err error) {
	if regular.Mesh() != mls.Mesh {
		return nil, chk.Err("integration method and level sets must share the same mesh")
	}
	o = &LevelSetIm{Mls: mls, Where: where, Regular: regular}
	if o.Simplex, err = mls.Mesh.Reg.IntegRule(simplex); err != nil {
		return nil, err
	}
	if !o.Simplex.Simplex && o.Simplex.Dim > 1 {
		return nil, chk.Err("rule %q is not a simplex rule", simplex)
	}
	if singular != "" {
		if o.Singular, err = mls.Mesh.Reg.IntegRule(singular); err != nil {
			return nil, err
		}
		if o.Singular.Dim != o.Simplex.Dim {
			return nil, chk.Err("singular and simplex rules must have the same dimension")
		}
	}
	err = o.Adapt()
	return
}

// Adapt recomputes integration points from the current decomposition
func (o *LevelSetIm) Adapt() (err error) {
	if o.Mls.NeedsAdapt() {
		if err = o.Mls.Adapt(); err != nil {
			return
		}
	}
	m := o.Mls.Mesh
	o.ipts = make([][]shp.Ipoint, len(m.Cells))
	for cid := range m.Cells {
		d := o.Mls.Decomposition(cid)
		if !d.Cut {
			if o.selected(d.Signs) {
				o.ipts[cid] = o.Regular.Ipoints(cid)
			}
			continue
		}
		if o.Simplex.Dim != m.GeoTrans(cid).Dim {
			return chk.Err("simplex rule of dimension %d cannot integrate cell %d of dimension %d", o.Simplex.Dim, cid, m.GeoTrans(cid).Dim)
		}
		for _, s := range d.Simplices {
			if !o.selected(s.Signs) {
				continue
			}
			rule := o.Simplex
			if s.Sing >= 0 && o.Singular != nil {
				rule = o.Singular.Collapsed(s.Sing)
			}
			o.ipts[cid] = append(o.ipts[cid], shp.MapSimplexRule(rule, s.X)...)
		}
	}
	o.mlsVer = o.Mls.Version()
	o.ready = true
	o.version++
	return
}

// selected tells whether a piece with the given signs is integrated
func (o *LevelSetIm) selected(signs [][2]int) bool {
	if o.Where == All || len(signs) == 0 {
		return true
	}
	s := signs[0][0]
	if o.Where == Inside {
		return s < 0
	}
	return s > 0
}

func (o *LevelSetIm) refresh() {
	if !o.ready || o.Mls.NeedsAdapt() || o.mlsVer != o.Mls.Version() {
		if err := o.Adapt(); err != nil {
			chk.Panic("cannot adapt integration method:\n%v", err)
		}
	}
}

// Mesh returns the mesh
func (o *LevelSetIm) Mesh() *inp.Mesh { return o.Mls.Mesh }

// Version returns the version number
func (o *LevelSetIm) Version() int {
	o.refresh()
	return o.version
}

// Ipoints returns the integration points of cell cid
func (o *LevelSetIm) Ipoints(cid int) []shp.Ipoint {
	o.refresh()
	return o.ipts[cid]
}

// FaceIpoints returns the integration points on a face; faces are not cut
func (o *LevelSetIm) FaceIpoints(cid, fid int) ([]shp.Ipoint, error) {
	return o.Regular.FaceIpoints(cid, fid)
}
