// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data: meshes, regions and parameters
package inp

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/shp"
)

// constants
const (
	Ztol     = 1e-7  // tolerance to decide whether z-coordinates are zero
	MergeTol = 1e-12 // points closer than this are merged by AddPoint
)

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"id"`  // id
	Tag int       `json:"tag"` // tag
	C   []float64 `json:"c"`   // coordinates (size==ndim)
}

// Cell holds cell data
type Cell struct {
	Id    int    `json:"id"`    // id
	Tag   int    `json:"tag"`   // tag
	Type  string `json:"type"`  // geometric transformation; e.g. "qua4"
	Verts []int  `json:"verts"` // vertices
	FTags []int  `json:"ftags"` // edge (2D) or face (3D) tags

	// derived
	Gt *shp.GeoTrans `json:"-"` // geometric transformation
}

// Mesh holds a mesh of convex cells
type Mesh struct {

	// data
	Verts []*Vert // vertices
	Cells []*Cell // cells

	// derived
	Ndim       int           // space dimension
	Reg        *shp.Registry // registry of geometric transformations and integration rules
	Xmin, Xmax float64       // min and max x-coordinate
	Ymin, Ymax float64       // min and max y-coordinate
	Zmin, Zmax float64       // min and max z-coordinate

	// regions
	Regions map[int]*Region // region id => cells/faces

	// internal
	index   *PointIndex // k-d tree with vertices
	version int         // incremented on structural changes
}

// NewMesh returns a new empty mesh
func NewMesh(ndim int, reg *shp.Registry) (o *Mesh) {
	o = new(Mesh)
	o.Ndim = ndim
	o.Reg = reg
	if o.Reg == nil {
		o.Reg = shp.NewRegistry()
	}
	o.Regions = make(map[int]*Region)
	o.index = NewPointIndex(nil)
	o.Xmin, o.Ymin, o.Zmin = math.Inf(1), math.Inf(1), math.Inf(1)
	o.Xmax, o.Ymax, o.Zmax = math.Inf(-1), math.Inf(-1), math.Inf(-1)
	return
}

// Version returns the structural version number
func (o *Mesh) Version() int { return o.version }

// Touch increments the version number; consumers must re-adapt
func (o *Mesh) Touch() { o.version++ }

// AddPoint adds a point, returning the id of an existing point if one is closer than MergeTol
func (o *Mesh) AddPoint(x []float64) int {
	if id, d := o.index.Nearest(x); id >= 0 && d < MergeTol {
		return id
	}
	c := make([]float64, o.Ndim)
	copy(c, x)
	v := &Vert{Id: len(o.Verts), C: c}
	o.Verts = append(o.Verts, v)
	o.index.Insert(c, v.Id)
	o.updateLimits(c)
	o.version++
	return v.Id
}

// AddCell adds a cell with given vertices
func (o *Mesh) AddCell(typ string, verts []int) (cid int, err error) {
	gt, err := o.Reg.GeoTrans(typ)
	if err != nil {
		return -1, err
	}
	if len(verts) != gt.Nverts {
		return -1, chk.Err("cell of type %q requires %d vertices; %d given", typ, gt.Nverts, len(verts))
	}
	for _, v := range verts {
		if v < 0 || v >= len(o.Verts) {
			return -1, chk.Err("vertex %d does not exist", v)
		}
	}
	cid = len(o.Cells)
	o.Cells = append(o.Cells, &Cell{Id: cid, Type: typ, Verts: append([]int{}, verts...), Gt: gt})
	o.version++
	return
}

// AddCellByPoints adds a cell given the coordinates of its nodes X[nverts][ndim]
func (o *Mesh) AddCellByPoints(typ string, X [][]float64) (cid int, err error) {
	verts := make([]int, len(X))
	for i, x := range X {
		verts[i] = o.AddPoint(x)
	}
	return o.AddCell(typ, verts)
}

// Coords returns the coordinates matrix x[ndim][nverts] of cell cid
func (o *Mesh) Coords(cid int) (x [][]float64) {
	c := o.Cells[cid]
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(c.Verts))
		for m, v := range c.Verts {
			x[i][m] = o.Verts[v].C[i]
		}
	}
	return
}

// Points returns the coordinates of the nodes of cell cid as X[nverts][ndim]
func (o *Mesh) Points(cid int) (X [][]float64) {
	c := o.Cells[cid]
	X = make([][]float64, len(c.Verts))
	for m, v := range c.Verts {
		X[m] = o.Verts[v].C
	}
	return
}

// FacePoints returns the coordinates of the nodes on face fid of cell cid
func (o *Mesh) FacePoints(cid, fid int) (X [][]float64) {
	for _, v := range o.FaceVerts(cid, fid) {
		X = append(X, o.Verts[v].C)
	}
	return
}

// Cell returns cell cid
func (o *Mesh) Cell(cid int) *Cell { return o.Cells[cid] }

// GeoTrans returns the geometric transformation of cell cid
func (o *Mesh) GeoTrans(cid int) *shp.GeoTrans { return o.Cells[cid].Gt }

// Dim returns the dimension of the reference elements (max over cells)
func (o *Mesh) Dim() (dim int) {
	for _, c := range o.Cells {
		if c.Gt.Dim > dim {
			dim = c.Gt.Dim
		}
	}
	return
}

// Translate translates all vertices by v
func (o *Mesh) Translate(v []float64) {
	X := make([][]float64, len(o.Verts))
	o.Xmin, o.Ymin, o.Zmin = math.Inf(1), math.Inf(1), math.Inf(1)
	o.Xmax, o.Ymax, o.Zmax = math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for i, vert := range o.Verts {
		for j := 0; j < o.Ndim; j++ {
			vert.C[j] += v[j]
		}
		X[i] = vert.C
		o.updateLimits(vert.C)
	}
	o.index = NewPointIndex(X)
	o.version++
}

// Region returns the region with given id, creating an empty one if necessary
func (o *Mesh) Region(id int) *Region {
	if r, ok := o.Regions[id]; ok {
		return r
	}
	r := NewRegion()
	o.Regions[id] = r
	return r
}

// SetRegion replaces region id
func (o *Mesh) SetRegion(id int, r *Region) {
	o.Regions[id] = r
}

// AllCells returns a region with all cells
func (o *Mesh) AllCells() (r *Region) {
	r = NewRegion()
	for _, c := range o.Cells {
		r.Add(c.Id, -1)
	}
	return
}

// FaceVerts returns the global vertices of face fid of cell cid
func (o *Mesh) FaceVerts(cid, fid int) (verts []int) {
	c := o.Cells[cid]
	for _, m := range c.Gt.Faces[fid] {
		verts = append(verts, c.Verts[m])
	}
	return
}

// OuterFaces returns a region with all faces that are not shared by two cells
func (o *Mesh) OuterFaces() (r *Region) {
	type key string
	count := make(map[key]int)
	owner := make(map[key]CellFace)
	for _, c := range o.Cells {
		for f := 0; f < c.Gt.NbFaces(); f++ {
			vs := make([]int, 0, 4)
			for _, m := range c.Gt.FaceBasicVerts(f) {
				vs = append(vs, c.Verts[m])
			}
			sort.Ints(vs)
			k := key(io.Sf("%v", vs))
			count[k]++
			owner[k] = CellFace{c.Id, f}
		}
	}
	r = NewRegion()
	for k, n := range count {
		if n == 1 {
			r.Add(owner[k].Cid, owner[k].Fid)
		}
	}
	return
}

// NormalOfFace returns the unit outward normal of face fid of cell cid (at the face centroid)
func (o *Mesh) NormalOfFace(cid, fid int) (n []float64) {
	c := o.Cells[cid]
	n = make([]float64, o.Ndim)
	basic := c.Gt.FaceBasicVerts(fid)

	// tangents
	p0 := o.Verts[c.Verts[basic[0]]].C
	switch c.Gt.Dim {
	case 1:
		n[0] = 1
	case 2:
		p1 := o.Verts[c.Verts[basic[1]]].C
		n[0], n[1] = p1[1]-p0[1], -(p1[0] - p0[0])
	case 3:
		p1 := o.Verts[c.Verts[basic[1]]].C
		p2 := o.Verts[c.Verts[basic[len(basic)-1]]].C
		if len(basic) == 4 {
			p2 = o.Verts[c.Verts[basic[2]]].C
		}
		a := []float64{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		b := []float64{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n[0] = a[1]*b[2] - a[2]*b[1]
		n[1] = a[2]*b[0] - a[0]*b[2]
		n[2] = a[0]*b[1] - a[1]*b[0]
	}

	// orientation: from cell centroid to face centroid
	cc := make([]float64, o.Ndim)
	fc := make([]float64, o.Ndim)
	for m := 0; m < c.Gt.Nbasic; m++ {
		for i := 0; i < o.Ndim; i++ {
			cc[i] += o.Verts[c.Verts[m]].C[i] / float64(c.Gt.Nbasic)
		}
	}
	for _, m := range basic {
		for i := 0; i < o.Ndim; i++ {
			fc[i] += o.Verts[c.Verts[m]].C[i] / float64(len(basic))
		}
	}
	dot, norm := 0.0, 0.0
	for i := 0; i < o.Ndim; i++ {
		dot += n[i] * (fc[i] - cc[i])
		norm += n[i] * n[i]
	}
	norm = math.Sqrt(norm)
	if dot < 0 {
		norm = -norm
	}
	for i := 0; i < o.Ndim; i++ {
		n[i] /= norm
	}
	return
}

// updateLimits updates the bounding box
func (o *Mesh) updateLimits(c []float64) {
	o.Xmin, o.Xmax = math.Min(o.Xmin, c[0]), math.Max(o.Xmax, c[0])
	if len(c) > 1 {
		o.Ymin, o.Ymax = math.Min(o.Ymin, c[1]), math.Max(o.Ymax, c[1])
	}
	if len(c) > 2 {
		o.Zmin, o.Zmax = math.Min(o.Zmin, c[2]), math.Max(o.Zmax, c[2])
	}
}

// generation and reading //////////////////////////////////////////////////////////////////////////

// RegularUnitMesh generates a structured mesh of [0,1]^dim
//
//	typ     -- "lin2", "qua4", "tri3", "tri6", "hex8" or "tet4"
//	nsubdiv -- number of divisions along each direction
func RegularUnitMesh(typ string, nsubdiv []int, reg *shp.Registry) (o *Mesh, err error) {
	dims := map[string]int{"lin2": 1, "qua4": 2, "tri3": 2, "tri6": 2, "hex8": 3, "tet4": 3}
	ndim, ok := dims[typ]
	if !ok {
		return nil, chk.Err("cannot generate regular mesh of %q", typ)
	}
	if len(nsubdiv) < ndim {
		return nil, chk.Err("regular mesh of %q requires %d subdivisions; %d given", typ, ndim, len(nsubdiv))
	}
	for i := 0; i < ndim; i++ {
		if nsubdiv[i] < 1 {
			return nil, chk.Err("number of subdivisions must be positive")
		}
	}
	o = NewMesh(ndim, reg)

	// lattice points
	nx := []int{nsubdiv[0], 1, 1}
	for i := 1; i < ndim; i++ {
		nx[i] = nsubdiv[i]
	}
	pid := func(i, j, k int) int {
		x := []float64{float64(i) / float64(nx[0]), float64(j) / float64(nx[1]), float64(k) / float64(nx[2])}
		return o.AddPoint(x[:ndim])
	}

	// cells
	nk := 1
	if ndim == 3 {
		nk = nx[2]
	}
	nj := 1
	if ndim >= 2 {
		nj = nx[1]
	}
	for k := 0; k < nk; k++ {
		for j := 0; j < nj; j++ {
			for i := 0; i < nx[0]; i++ {
				switch typ {
				case "lin2":
					_, err = o.AddCell("lin2", []int{pid(i, 0, 0), pid(i+1, 0, 0)})
				case "qua4":
					_, err = o.AddCell("qua4", []int{pid(i, j, 0), pid(i+1, j, 0), pid(i, j+1, 0), pid(i+1, j+1, 0)})
				case "tri3", "tri6":
					p00, p10, p01, p11 := pid(i, j, 0), pid(i+1, j, 0), pid(i, j+1, 0), pid(i+1, j+1, 0)
					for _, tri := range [][]int{{p00, p10, p11}, {p00, p11, p01}} {
						if typ == "tri3" {
							_, err = o.AddCell("tri3", tri)
						} else {
							_, err = o.AddCell("tri6", o.midNodes(tri))
						}
						if err != nil {
							return
						}
					}
				case "hex8", "tet4":
					h := make([]int, 8)
					for m := 0; m < 8; m++ {
						h[m] = pid(i+(m&1), j+((m>>1)&1), k+((m>>2)&1))
					}
					if typ == "hex8" {
						_, err = o.AddCell("hex8", h)
						break
					}
					hex, _ := o.Reg.GeoTrans("hex8")
					for _, s := range hex.Simplices {
						_, err = o.AddCell("tet4", []int{h[s[0]], h[s[1]], h[s[2]], h[s[3]]})
						if err != nil {
							return
						}
					}
				}
				if err != nil {
					return
				}
			}
		}
	}
	return
}

// midNodes returns the vertices of a tri6 from a tri3, adding mid-nodes (merged with neighbours)
func (o *Mesh) midNodes(tri []int) []int {
	mid := func(a, b int) int {
		x := make([]float64, o.Ndim)
		for i := 0; i < o.Ndim; i++ {
			x[i] = 0.5 * (o.Verts[a].C[i] + o.Verts[b].C[i])
		}
		return o.AddPoint(x)
	}
	return []int{tri[0], tri[1], tri[2], mid(tri[0], tri[1]), mid(tri[1], tri[2]), mid(tri[2], tri[0])}
}

// ReadMsh reads a mesh in JSON format: {"verts":[{"id","tag","c"}], "cells":[{"id","tag","type","verts","ftags"}]}
// Negative face tags become regions (faces); negative cell tags become regions (cells)
func ReadMsh(fn string, reg *shp.Registry) (o *Mesh, err error) {

	// read file
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", fn, err)
	}
	var data struct {
		Verts []*Vert `json:"verts"`
		Cells []*Cell `json:"cells"`
	}
	err = json.Unmarshal(b, &data)
	if err != nil {
		return nil, chk.Err("cannot decode mesh file %q:\n%v", fn, err)
	}
	if len(data.Verts) < 2 || len(data.Cells) < 1 {
		return nil, chk.Err("mesh file %q must have at least 2 vertices and 1 cell", fn)
	}

	// space dimension
	ndim := 2
	for _, v := range data.Verts {
		if len(v.C) > 2 && math.Abs(v.C[2]) > Ztol {
			ndim = 3
		}
	}

	// vertices and cells
	o = NewMesh(ndim, reg)
	for i, v := range data.Verts {
		if v.Id != i {
			return nil, chk.Err("vertex ids must be sequential; got %d at position %d", v.Id, i)
		}
		if id := o.AddPoint(v.C[:ndim]); id != i {
			return nil, chk.Err("vertex %d coincides with vertex %d", i, id)
		}
		o.Verts[i].Tag = v.Tag
	}
	for i, c := range data.Cells {
		if c.Id != i {
			return nil, chk.Err("cell ids must be sequential; got %d at position %d", c.Id, i)
		}
		cid, e := o.AddCell(c.Type, c.Verts)
		if e != nil {
			return nil, e
		}
		o.Cells[cid].Tag, o.Cells[cid].FTags = c.Tag, c.FTags
		if c.Tag < 0 {
			o.Region(c.Tag).Add(cid, -1)
		}
		for f, tag := range c.FTags {
			if tag < 0 {
				o.Region(tag).Add(cid, f)
			}
		}
	}
	return
}
