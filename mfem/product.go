// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/shp"
)

// Product multiplies a scalar partition of unity by an enrichment space. Only the partition
// of unity dofs flagged in the enrichment set are used
type Product struct {
	base
	Pu       MeshFem // partition of unity
	Enr      MeshFem // enrichment
	enriched []bool  // [Pu.NbBasicDof()] enriched dofs of the partition of unity

	// numbering
	cellDofs  [][]int    // [ncells][nloc] basic dofs
	cellPairs [][][2]int // [ncells][nloc] local (pu, enr) function pairs
	ndofs     int
	versions  [2]int

	// scratch
	evPu, evEnr *Evaluator
}

// NewProduct returns a new product space. enriched == nil means all dofs of pu
func NewProduct(qdim int, pu, enr MeshFem, enriched []bool) (o *Product, err error) {
	if pu.Mesh() != enr.Mesh() {
		return nil, chk.Err("spaces in a product must share the same mesh")
	}
	if pu.Qdim() != 1 || enr.Qdim() != 1 {
		return nil, chk.Err("spaces in a product must be scalar")
	}
	o = &Product{Pu: pu, Enr: enr}
	o.mesh, o.qdim = pu.Mesh(), qdim
	o.evPu, o.evEnr = NewEvaluator(pu), NewEvaluator(enr)
	err = o.SetEnrichment(enriched)
	return
}

// SetEnrichment sets the enriched dofs of the partition of unity
func (o *Product) SetEnrichment(enriched []bool) error {
	if enriched == nil {
		enriched = make([]bool, o.Pu.NbBasicDof())
		for i := range enriched {
			enriched[i] = true
		}
	}
	if len(enriched) != o.Pu.NbBasicDof() {
		return chk.Err("enrichment set has %d entries but partition of unity has %d dofs", len(enriched), o.Pu.NbBasicDof())
	}
	o.enriched = enriched
	o.renumber()
	return nil
}

// Enriched returns the enrichment set
func (o *Product) Enriched() []bool { return o.enriched }

func (o *Product) renumber() {
	ids := make(map[[2]int]int)
	o.cellDofs = make([][]int, len(o.mesh.Cells))
	o.cellPairs = make([][][2]int, len(o.mesh.Cells))
	for cid := range o.mesh.Cells {
		for a, i := range o.Pu.CellBasicDofs(cid) {
			if !o.enriched[i] {
				continue
			}
			for b, j := range o.Enr.CellBasicDofs(cid) {
				id, ok := ids[[2]int{i, j}]
				if !ok {
					id = len(ids)
					ids[[2]int{i, j}] = id
				}
				o.cellDofs[cid] = append(o.cellDofs[cid], id)
				o.cellPairs[cid] = append(o.cellPairs[cid], [2]int{a, b})
			}
		}
	}
	o.ndofs = len(ids)
	o.versions = [2]int{o.Pu.Version(), o.Enr.Version()}
	o.version++
}

func (o *Product) refresh() {
	if o.versions != [2]int{o.Pu.Version(), o.Enr.Version()} {
		if len(o.enriched) != o.Pu.NbBasicDof() {
			chk.Panic("enrichment set must be reset after the partition of unity changes")
		}
		o.renumber()
	}
}

// NbBasicDof returns the number of basic dofs
func (o *Product) NbBasicDof() int {
	o.refresh()
	return o.ndofs
}

// NbDof returns the number of dofs
func (o *Product) NbDof() int { return o.NbBasicDof() * o.qdim }

// NbLocal returns the number of local functions
func (o *Product) NbLocal(cid int) int {
	o.refresh()
	return len(o.cellDofs[cid])
}

// CellBasicDofs returns the basic dofs of cell
func (o *Product) CellBasicDofs(cid int) []int {
	o.refresh()
	return o.cellDofs[cid]
}

// CellDofs returns the dofs of cell
func (o *Product) CellDofs(cid int) []int { return ExpandDofs(o.CellBasicDofs(cid), o.qdim) }

// DofPoint returns the point of the partition of unity dof
func (o *Product) DofPoint(b int) []float64 {
	o.refresh()
	for cid, dofs := range o.cellDofs {
		for l, d := range dofs {
			if d == b {
				return o.Pu.DofPoint(o.Pu.CellBasicDofs(cid)[o.cellPairs[cid][l][0]])
			}
		}
	}
	return nil
}

// Version returns the version number
func (o *Product) Version() int {
	o.refresh()
	return o.version
}

// Eval computes φ_a·ψ_b and ∇(φ_a·ψ_b) = ∇φ_a·ψ_b + φ_a·∇ψ_b
func (o *Product) Eval(cid int, ctx *shp.GeoCtx, val []float64, grad [][]float64) (err error) {
	o.refresh()
	if len(o.cellDofs[cid]) == 0 {
		return
	}
	if err = o.evPu.At(cid, ctx, grad != nil); err != nil {
		return
	}
	if err = o.evEnr.At(cid, ctx, grad != nil); err != nil {
		return
	}
	for l, p := range o.cellPairs[cid] {
		φ, ψ := o.evPu.Val[p[0]], o.evEnr.Val[p[1]]
		val[l] = φ * ψ
		if grad != nil {
			for i := range grad[l] {
				grad[l][i] = o.evPu.Grad[p[0]][i]*ψ + φ*o.evEnr.Grad[p[1]][i]
			}
		}
	}
	return
}
