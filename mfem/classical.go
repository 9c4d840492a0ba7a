// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/shp"
)

// Classical implements continuous Lagrange elements of degree 1 or 2 and discontinuous
// constants (degree 0)
type Classical struct {
	base
	Degree int // polynomial degree

	// numbering
	meshVersion int                // version of mesh when numbered
	cellDofs    [][]int            // [ncells][nloc] basic dofs
	dofPts      [][]float64        // [nbasic][ndim] coordinates of dofs
	shapes      []*shp.GeoTrans    // [ncells] transformation providing the shape functions
	scratch     map[string]scratch // shape functions scratchpad
}

type scratch struct {
	S    []float64
	dSdR [][]float64
}

// NewClassical returns a new Lagrange space on all cells of the mesh
func NewClassical(m *inp.Mesh, degree, qdim int) (o *Classical, err error) {
	if degree < 0 || degree > 2 {
		return nil, chk.Err("Lagrange elements of degree %d are not available", degree)
	}
	if qdim < 1 {
		return nil, chk.Err("number of components must be positive; got %d", qdim)
	}
	o = &Classical{Degree: degree}
	o.mesh, o.qdim = m, qdim
	err = o.Adapt()
	return
}

// Adapt renumbers dofs if the mesh changed
func (o *Classical) Adapt() (err error) {
	if o.cellDofs != nil && o.meshVersion == o.mesh.Version() {
		return
	}
	o.cellDofs = make([][]int, len(o.mesh.Cells))
	o.shapes = make([]*shp.GeoTrans, len(o.mesh.Cells))
	o.scratch = make(map[string]scratch)
	o.dofPts = nil
	vdof := make(map[int]int)    // vertex => dof
	edof := make(map[[2]int]int) // edge => dof
	for _, c := range o.mesh.Cells {
		ctx := NewCellCtx(o.mesh, c.Id)
		if o.Degree == 0 {
			o.cellDofs[c.Id] = []int{len(o.dofPts)}
			ctx.SetXref(c.Gt.Centroid())
			o.dofPts = append(o.dofPts, append([]float64{}, ctx.Xreal()...))
			continue
		}
		sg, e := o.shapeOf(c.Gt)
		if e != nil {
			return e
		}
		o.shapes[c.Id] = sg
		if _, ok := o.scratch[sg.Name]; !ok {
			o.scratch[sg.Name] = scratch{make([]float64, sg.Nverts), utl.Alloc(sg.Nverts, sg.Dim)}
		}
		dofs := make([]int, sg.Nverts)
		for m := 0; m < sg.Nverts; m++ {
			var id int
			var ok bool
			if m < sg.Nbasic {
				id, ok = vdof[c.Verts[m]]
				if !ok {
					id = len(o.dofPts)
					vdof[c.Verts[m]] = id
				}
			} else {
				a, b := edgeOf(sg.Name, m)
				va, vb := c.Verts[a], c.Verts[b]
				if va > vb {
					va, vb = vb, va
				}
				id, ok = edof[[2]int{va, vb}]
				if !ok {
					id = len(o.dofPts)
					edof[[2]int{va, vb}] = id
				}
			}
			if !ok {
				ctx.SetXref(sg.NatCoords[m])
				o.dofPts = append(o.dofPts, append([]float64{}, ctx.Xreal()...))
			}
			dofs[m] = id
		}
		o.cellDofs[c.Id] = dofs
	}
	o.meshVersion = o.mesh.Version()
	o.version++
	return
}

// shapeOf returns the transformation whose shape functions are the Lagrange basis on gt
func (o *Classical) shapeOf(gt *shp.GeoTrans) (*shp.GeoTrans, error) {
	name := gt.Basic
	if o.Degree == 2 {
		switch gt.Basic {
		case "lin2":
			name = "lin3"
		case "tri3":
			name = "tri6"
		default:
			return nil, chk.Err("Lagrange elements of degree 2 are not available on %q", gt.Name)
		}
	}
	return o.mesh.Reg.GeoTrans(name)
}

// edgeOf returns the end vertices of the edge holding mid-node m
func edgeOf(name string, m int) (a, b int) {
	if name == "lin3" {
		return 0, 1
	}
	e := [][]int{{0, 1}, {1, 2}, {2, 0}}[m-3] // tri6
	return e[0], e[1]
}

// NbBasicDof returns the number of basic dofs
func (o *Classical) NbBasicDof() int { return len(o.dofPts) }

// NbDof returns the number of dofs
func (o *Classical) NbDof() int { return len(o.dofPts) * o.qdim }

// NbLocal returns the number of local basis functions
func (o *Classical) NbLocal(cid int) int { return len(o.cellDofs[cid]) }

// CellBasicDofs returns the basic dofs of cell
func (o *Classical) CellBasicDofs(cid int) []int { return o.cellDofs[cid] }

// CellDofs returns the dofs of cell
func (o *Classical) CellDofs(cid int) []int { return ExpandDofs(o.cellDofs[cid], o.qdim) }

// DofPoint returns the coordinates of a basic dof
func (o *Classical) DofPoint(b int) []float64 { return o.dofPts[b] }

// NodeRef returns the reference coordinates of the local node a of cell cid
func (o *Classical) NodeRef(cid, a int) []float64 {
	if o.Degree == 0 {
		return o.mesh.GeoTrans(cid).Centroid()
	}
	return o.shapes[cid].NatCoords[a]
}

// Version returns the version number
func (o *Classical) Version() int { return o.version }

// Eval computes the basis functions at the point set in ctx
func (o *Classical) Eval(cid int, ctx *shp.GeoCtx, val []float64, grad [][]float64) (err error) {
	if o.Degree == 0 {
		val[0] = 1
		if grad != nil {
			for i := range grad[0] {
				grad[0][i] = 0
			}
		}
		return
	}
	sg := o.shapes[cid]
	s := o.scratch[sg.Name]
	sg.Func(s.S, s.dSdR, ctx.Xref(), grad != nil)
	copy(val, s.S)
	if grad != nil {
		for a := 0; a < sg.Nverts; a++ {
			if err = ctx.GradReal(grad[a], s.dSdR[a]); err != nil {
				return
			}
		}
	}
	return
}
