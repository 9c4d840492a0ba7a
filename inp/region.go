// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import "sort"

// CellFace identifies a cell (Fid == -1) or one local face of a cell
type CellFace struct {
	Cid int // cell id
	Fid int // local face index; -1 => the whole cell
}

// Region holds a mutable set of cells and faces of cells
type Region struct {
	items map[CellFace]bool
}

// NewRegion returns a new empty region
func NewRegion() *Region {
	return &Region{items: make(map[CellFace]bool)}
}

// Add adds a cell (fid == -1) or a face of a cell
func (o *Region) Add(cid, fid int) {
	o.items[CellFace{cid, fid}] = true
}

// Remove removes an item
func (o *Region) Remove(cid, fid int) {
	delete(o.items, CellFace{cid, fid})
}

// Has tells whether the item is in the region
func (o *Region) Has(cid, fid int) bool {
	return o.items[CellFace{cid, fid}]
}

// Size returns the number of items
func (o *Region) Size() int { return len(o.items) }

// Items returns all items sorted by cell and then face
func (o *Region) Items() (res []CellFace) {
	res = make([]CellFace, 0, len(o.items))
	for it := range o.items {
		res = append(res, it)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Cid == res[j].Cid {
			return res[i].Fid < res[j].Fid
		}
		return res[i].Cid < res[j].Cid
	})
	return
}

// Cells returns the sorted ids of cells having at least one item in the region
func (o *Region) Cells() (cids []int) {
	seen := make(map[int]bool)
	for it := range o.items {
		if !seen[it.Cid] {
			seen[it.Cid] = true
			cids = append(cids, it.Cid)
		}
	}
	sort.Ints(cids)
	return
}

// FacesOf returns the sorted faces of cell cid in the region (-1 for the cell itself)
func (o *Region) FacesOf(cid int) (fids []int) {
	for it := range o.items {
		if it.Cid == cid {
			fids = append(fids, it.Fid)
		}
	}
	sort.Ints(fids)
	return
}

// IsOnlyFaces tells whether the region contains faces only (a boundary)
func (o *Region) IsOnlyFaces() bool {
	for it := range o.items {
		if it.Fid < 0 {
			return false
		}
	}
	return len(o.items) > 0
}

// Clone returns a copy of this region
func (o *Region) Clone() (r *Region) {
	r = NewRegion()
	for it := range o.items {
		r.items[it] = true
	}
	return
}

// Union returns a ∪ b
func Union(a, b *Region) (r *Region) {
	r = a.Clone()
	for it := range b.items {
		r.items[it] = true
	}
	return
}

// Intersect returns a ∩ b
func Intersect(a, b *Region) (r *Region) {
	r = NewRegion()
	for it := range a.items {
		if b.items[it] {
			r.items[it] = true
		}
	}
	return
}

// Subtract returns a \ b
func Subtract(a, b *Region) (r *Region) {
	r = NewRegion()
	for it := range a.items {
		if !b.items[it] {
			r.items[it] = true
		}
	}
	return
}

// Partition returns the part of the region assigned to processor rank out of nproc.
// Runs are single-process, so the region itself is returned
func (o *Region) Partition(rank, nproc int) *Region {
	return o
}
