// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lset

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/shp"
)

// constants
const (
	CutTol    = 1e-10 // level-set values with |φ| < CutTol are taken as zero
	SliverTol = 1e-14 // sub-simplices with reference volume factor below SliverTol are dropped
)

// SubSimplex is a piece of a cell lying on one side of every level set
type SubSimplex struct {
	X     [][]float64 // [P+1][P] vertices in reference coordinates of the cell
	Signs [][2]int    // [nls] signs (-1, 0, +1) of primary and secondary fields
	Sing  int         // local vertex located at a singular point (crack tip); -1 if none
}

// Decomp holds the decomposition of one cell
type Decomp struct {
	Cut       bool          // cell is crossed by a level set or touches a singular point
	Singular  bool          // one sub-simplex has a singular vertex
	Simplices []*SubSimplex // sub-simplices; for uncut simplex cells: the cell itself
	Signs     [][2]int      // [nls] signs of the cell when not cut
}

// MeshLevelSet holds a set of level sets on a mesh and the decomposition of cells crossed by them
type MeshLevelSet struct {
	Mesh    *inp.Mesh   // mesh
	lsets   []*LevelSet // level sets
	decomps []*Decomp   // [ncells] decompositions
	sing    [][]float64 // singular points (real coordinates)

	// versions when adapted
	lsVers  []int
	meshVer int
	adapted bool
	version int
}

// NewMeshLevelSet returns a new object
func NewMeshLevelSet(m *inp.Mesh) *MeshLevelSet {
	return &MeshLevelSet{Mesh: m}
}

// AddLevelSet adds a level set; Adapt must be called afterwards
func (o *MeshLevelSet) AddLevelSet(ls *LevelSet) error {
	if ls.Mesh() != o.Mesh {
		return chk.Err("level set must be defined on the same mesh")
	}
	o.lsets = append(o.lsets, ls)
	o.adapted = false
	return nil
}

// LevelSets returns all level sets
func (o *MeshLevelSet) LevelSets() []*LevelSet { return o.lsets }

// NeedsAdapt tells whether the mesh or a level set changed since the last Adapt
func (o *MeshLevelSet) NeedsAdapt() bool {
	if !o.adapted || o.meshVer != o.Mesh.Version() || len(o.lsVers) != len(o.lsets) {
		return true
	}
	for i, ls := range o.lsets {
		if ls.Version() != o.lsVers[i] {
			return true
		}
	}
	return false
}

// Version returns the version number (incremented by Adapt)
func (o *MeshLevelSet) Version() int { return o.version }

// IsCut tells whether cell cid is decomposed
func (o *MeshLevelSet) IsCut(cid int) bool { return o.decomps[cid].Cut }

// Decomposition returns the decomposition of cell cid
func (o *MeshLevelSet) Decomposition(cid int) *Decomp { return o.decomps[cid] }

// SingularPoints returns the singular points found by the last Adapt
func (o *MeshLevelSet) SingularPoints() [][]float64 { return o.sing }

// Adapt recomputes the decomposition of all cells
func (o *MeshLevelSet) Adapt() (err error) {
	o.decomps = make([]*Decomp, len(o.Mesh.Cells))
	o.sing = nil
	for _, c := range o.Mesh.Cells {
		if o.decomps[c.Id], err = o.cutCell(c.Id); err != nil {
			return
		}
	}
	o.lsVers = make([]int, len(o.lsets))
	for i, ls := range o.lsets {
		o.lsVers[i] = ls.Version()
	}
	o.meshVer = o.Mesh.Version()
	o.adapted = true
	o.version++
	return
}

// piece is a sub-simplex with the values of all fields at its vertices
type piece struct {
	X [][]float64 // [P+1][P] vertices
	V [][]float64 // [P+1][2*nls] values (primary, secondary, primary, ...)
}

// cutCell computes the decomposition of one cell
func (o *MeshLevelSet) cutCell(cid int) (d *Decomp, err error) {
	gt := o.Mesh.GeoTrans(cid)
	ctx := mfem.NewCellCtx(o.Mesh, cid)
	nls := len(o.lsets)
	d = new(Decomp)

	// values at the vertices of the simplexification
	var pieces []*piece
	for _, sx := range shp.ReferenceSimplices(gt) {
		p := &piece{X: sx, V: make([][]float64, len(sx))}
		for k, r := range sx {
			ctx.SetXref(r)
			p.V[k] = make([]float64, 2*nls)
			for l, ls := range o.lsets {
				p.V[k][2*l] = snap(ls.Eval(0, cid, ctx))
				if ls.Secondary {
					p.V[k][2*l+1] = snap(ls.Eval(1, cid, ctx))
				} else {
					p.V[k][2*l+1] = -1
				}
			}
		}
		pieces = append(pieces, p)
	}

	// cut by primary fields and, where the primary changes sign, by the secondary ones
	for l := range o.lsets {
		lo0, hi0 := rangeOf(pieces, 2*l)
		if lo0 < 0 && hi0 > 0 {
			d.Cut = true
			pieces = cutAll(pieces, 2*l)
			if lo1, hi1 := rangeOf(pieces, 2*l+1); lo1 < 0 && hi1 > 0 {
				pieces = cutAll(pieces, 2*l+1)
			}
		}
	}

	// crack tips in 2D
	if gt.Dim == 2 && o.Mesh.Ndim == 2 {
		for l, ls := range o.lsets {
			if !ls.Secondary {
				continue
			}
			lo0, hi0 := rangeOf(pieces, 2*l)
			lo1, hi1 := rangeOf(pieces, 2*l+1)
			if lo0 > 0 || hi0 < 0 || lo1 > 0 || hi1 < 0 {
				continue
			}
			var res []*piece
			for _, p := range pieces {
				sub, split := insertTip(p, 2*l)
				if split {
					d.Cut = true
				}
				res = append(res, sub...)
			}
			pieces = res
		}
	}

	// singular vertices
	for _, p := range pieces {
		s := &SubSimplex{X: p.X, Sing: -1, Signs: signsOf(p, nls)}
		for k := range p.V {
			for l, ls := range o.lsets {
				if ls.Secondary && p.V[k][2*l] == 0 && p.V[k][2*l+1] == 0 && gt.Dim == 2 {
					s.Sing = k
				}
			}
		}
		if s.Sing >= 0 {
			d.Cut, d.Singular = true, true
			ctx.SetXref(p.X[s.Sing])
			o.addSingularPoint(ctx.Xreal())
		}
		d.Simplices = append(d.Simplices, s)
	}

	// uncut cells: identity decomposition
	if !d.Cut {
		d.Signs = signsOfCell(pieces, nls)
		d.Simplices = nil
		if gt.Simplex {
			X := shp.ReferenceSimplices(gt)[0]
			d.Simplices = []*SubSimplex{{X: X, Sing: -1, Signs: d.Signs}}
		}
	}
	return
}

// addSingularPoint adds a point if not yet recorded
func (o *MeshLevelSet) addSingularPoint(x []float64) {
	for _, y := range o.sing {
		dist := 0.0
		for i := range x {
			dist += (x[i] - y[i]) * (x[i] - y[i])
		}
		if math.Sqrt(dist) < 1e-8 {
			return
		}
	}
	o.sing = append(o.sing, append([]float64{}, x...))
}

// cutting //////////////////////////////////////////////////////////////////////////////////////

// snap returns zero for values within CutTol
func snap(v float64) float64 {
	if math.Abs(v) < CutTol {
		return 0
	}
	return v
}

// rangeOf returns the min and max of field f over all vertices
func rangeOf(pieces []*piece, f int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range pieces {
		for _, v := range p.V {
			lo, hi = math.Min(lo, v[f]), math.Max(hi, v[f])
		}
	}
	return
}

// cutAll cuts all pieces by the zero set of field f
func cutAll(pieces []*piece, f int) (res []*piece) {
	for _, p := range pieces {
		res = append(res, cutPiece(p, f)...)
	}
	return
}

// cutPiece splits recursively a simplex along edges where field f changes sign
func cutPiece(p *piece, f int) []*piece {
	n := len(p.X)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			va, vb := p.V[a][f], p.V[b][f]
			if va*vb >= 0 {
				continue
			}
			t := va / (va - vb)
			x, v := lerp(p, a, b, t)
			v[f] = 0
			p1, p2 := p.replace(b, x, v), p.replace(a, x, v)
			var res []*piece
			for _, q := range []*piece{p1, p2} {
				if shp.SimplexVolumeFactor(q.X) > SliverTol {
					res = append(res, cutPiece(q, f)...)
				}
			}
			return res
		}
	}
	return []*piece{p}
}

// insertTip finds the point where fields f (primary) and f+1 (secondary) vanish inside a
// triangle and splits the triangle so that this point becomes a vertex
func insertTip(p *piece, f int) (res []*piece, split bool) {
	f0, f1, f2 := p.V[0][f], p.V[1][f], p.V[2][f]
	g0, g1, g2 := p.V[0][f+1], p.V[1][f+1], p.V[2][f+1]
	det := (f1-f0)*(g2-g0) - (f2-f0)*(g1-g0)
	if math.Abs(det) < SliverTol {
		return []*piece{p}, false
	}
	λ1 := (-f0*(g2-g0) + g0*(f2-f0)) / det
	λ2 := (-g0*(f1-f0) + f0*(g1-g0)) / det
	λ := []float64{1 - λ1 - λ2, λ1, λ2}
	for _, l := range λ {
		if l < -CutTol {
			return []*piece{p}, false // outside
		}
		if l > 1-CutTol {
			return []*piece{p}, false // at a vertex
		}
	}

	// tip point
	P := len(p.X[0])
	x := make([]float64, P)
	v := make([]float64, len(p.V[0]))
	for k := 0; k < 3; k++ {
		for i := 0; i < P; i++ {
			x[i] += λ[k] * p.X[k][i]
		}
		for i := range v {
			v[i] += λ[k] * p.V[k][i]
		}
	}
	for i := range v {
		v[i] = snap(v[i])
	}
	v[f], v[f+1] = 0, 0

	// star split
	for k := 0; k < 3; k++ {
		if λ[k] <= CutTol {
			continue
		}
		q := p.replace(k, x, v)
		if shp.SimplexVolumeFactor(q.X) > SliverTol {
			res = append(res, q)
		}
	}
	return res, true
}

// lerp interpolates coordinates and values along edge (a,b)
func lerp(p *piece, a, b int, t float64) (x, v []float64) {
	x = make([]float64, len(p.X[a]))
	for i := range x {
		x[i] = p.X[a][i] + t*(p.X[b][i]-p.X[a][i])
	}
	v = make([]float64, len(p.V[a]))
	for i := range v {
		v[i] = snap(p.V[a][i] + t*(p.V[b][i]-p.V[a][i]))
	}
	return
}

// replace returns a copy of p with vertex k replaced
func (p *piece) replace(k int, x, v []float64) *piece {
	q := &piece{X: make([][]float64, len(p.X)), V: make([][]float64, len(p.V))}
	copy(q.X, p.X)
	copy(q.V, p.V)
	q.X[k], q.V[k] = x, v
	return q
}

// signsOf returns the signs of all fields at the centroid of a piece
func signsOf(p *piece, nls int) (s [][2]int) {
	s = make([][2]int, nls)
	for l := 0; l < nls; l++ {
		for j := 0; j < 2; j++ {
			avg := 0.0
			for _, v := range p.V {
				avg += v[2*l+j] / float64(len(p.V))
			}
			s[l][j] = sign(avg)
		}
	}
	return
}

// signsOfCell returns the signs of fields in an uncut cell
func signsOfCell(pieces []*piece, nls int) (s [][2]int) {
	s = make([][2]int, nls)
	for l := 0; l < nls; l++ {
		for j := 0; j < 2; j++ {
			lo, hi := rangeOf(pieces, 2*l+j)
			switch {
			case lo < 0:
				s[l][j] = -1
			case hi > 0:
				s[l][j] = 1
			}
		}
	}
	return
}

func sign(v float64) int {
	switch {
	case v < -CutTol:
		return -1
	case v > CutTol:
		return 1
	}
	return 0
}
