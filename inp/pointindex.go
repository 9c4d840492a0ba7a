// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// PointIndex is a k-d tree over points with integer ids
type PointIndex struct {
	tree *kdtree.Tree
}

// NewPointIndex builds an index for the given points; point i gets id i
func NewPointIndex(X [][]float64) (o *PointIndex) {
	pts := make(kdPoints, len(X))
	for i, x := range X {
		pts[i] = kdPoint{x: x, id: i}
	}
	o = new(PointIndex)
	if len(pts) == 0 {
		o.tree = new(kdtree.Tree)
		return
	}
	o.tree = kdtree.New(pts, false)
	return
}

// Insert adds one point to the index
func (o *PointIndex) Insert(x []float64, id int) {
	o.tree.Insert(kdPoint{x: x, id: id}, false)
}

// Nearest returns the id of the nearest point and its distance; id == -1 if the index is empty
func (o *PointIndex) Nearest(x []float64) (id int, dist float64) {
	c, d2 := o.tree.Nearest(kdPoint{x: x, id: -1})
	if c == nil {
		return -1, 0
	}
	return c.(kdPoint).id, math.Sqrt(d2)
}

// WithinRadius returns the sorted ids of all points p with |p - x| ≤ radius
func (o *PointIndex) WithinRadius(x []float64, radius float64) (ids []int) {
	if radius < 0 {
		return
	}
	keep := kdtree.NewDistKeeper(radius * radius)
	o.tree.NearestSet(keep, kdPoint{x: x, id: -1})
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		ids = append(ids, cd.Comparable.(kdPoint).id)
	}
	sort.Ints(ids)
	return
}

// kd-tree interfaces ////////////////////////////////////////////////////////////////////////////

var (
	_ kdtree.Interface  = kdPoints{}
	_ kdtree.Comparable = kdPoint{}
)

type kdPoint struct {
	x  []float64
	id int
}

// Compare returns the signed distance of a from the plane passing through b and perpendicular to d
func (a kdPoint) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return a.x[d] - b.(kdPoint).x[d]
}

// Dims returns the number of dimensions
func (a kdPoint) Dims() int { return len(a.x) }

// Distance returns the squared Euclidean distance
func (a kdPoint) Distance(b kdtree.Comparable) (d2 float64) {
	q := b.(kdPoint)
	for i := range a.x {
		d := a.x[i] - q.x[i]
		d2 += d * d
	}
	return
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p kdPoints) Len() int                      { return len(p) }
func (p kdPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p kdPoints) Pivot(d kdtree.Dim) int {
	pl := kdPlane{dim: int(d), pts: p}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

type kdPlane struct {
	dim int
	pts kdPoints
}

func (p kdPlane) Less(i, j int) bool { return p.pts[i].x[p.dim] < p.pts[j].x[p.dim] }
func (p kdPlane) Swap(i, j int)      { p.pts[i], p.pts[j] = p.pts[j], p.pts[i] }
func (p kdPlane) Len() int           { return len(p.pts) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.pts = p.pts[start:end]
	return p
}
