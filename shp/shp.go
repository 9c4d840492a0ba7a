// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements geometric transformations, integration rules and the small dense
// linear algebra they need
package shp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// constants
const MINDET = 1.0e-14 // minimum determinant allowed for K (or KᵀK)

// ShpFunc is the shape functions callback function
//
//	S[nverts] and dSdR[nverts][dim] must be pre-allocated
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// GeoTrans holds the definition of a reference-to-real geometric transformation.
// Reference elements: simplices with vertices (0,0,..), (1,0,..), (0,1,..), ...;
// parallelepipeds on [0,1]^dim with vertices in lexicographic order
type GeoTrans struct {
	Name      string      // name; e.g. "tri3"
	Dim       int         // dimension of reference element (P)
	Nverts    int         // number of nodes; e.g. "tri6" => 6
	Simplex   bool        // reference element is a simplex
	Linear    bool        // affine transformation (constant K)
	Basic     string      // basic geometry with vertices only; e.g. "tri6" => "tri3"
	Nbasic    int         // number of vertices of the basic geometry (stored first)
	NatCoords [][]float64 // [nverts][dim] reference coordinates of nodes
	Faces     [][]int     // [nfaces][...] local nodes on each face
	FaceType  string      // geometric transformation of faces
	Simplices [][]int     // simplexification of the reference element (indices of basic vertices)
	VtkCode   int         // VTK cell code
	VtkOrder  []int       // local node order expected by VTK (nil => same order)
	Func      ShpFunc     // shape functions
}

// Registry holds geometric transformations and integration rules by name.
// Integration rules are built on first request and memoised
type Registry struct {
	geos  map[string]*GeoTrans
	rules map[string]*IntegRule
}

// geoallocators holds all available geometric transformations
var geoallocators = make(map[string]func() *GeoTrans)

// NewRegistry returns a new registry with all geometric transformations
func NewRegistry() (o *Registry) {
	o = new(Registry)
	o.geos = make(map[string]*GeoTrans)
	o.rules = make(map[string]*IntegRule)
	for name, alloc := range geoallocators {
		o.geos[name] = alloc()
	}
	return
}

// GeoTrans returns the geometric transformation with the given name
func (o *Registry) GeoTrans(name string) (*GeoTrans, error) {
	if gt, ok := o.geos[name]; ok {
		return gt, nil
	}
	return nil, chk.Err("cannot find geometric transformation named %q", name)
}

// NbFaces returns the number of faces
func (o *GeoTrans) NbFaces() int { return len(o.Faces) }

// Centroid returns the reference coordinates of the centroid of the basic vertices
func (o *GeoTrans) Centroid() (c []float64) {
	c = make([]float64, o.Dim)
	for m := 0; m < o.Nbasic; m++ {
		for i := 0; i < o.Dim; i++ {
			c[i] += o.NatCoords[m][i] / float64(o.Nbasic)
		}
	}
	return
}

// FaceBasicVerts returns the local vertices (no mid-nodes) of face idxface
func (o *GeoTrans) FaceBasicVerts(idxface int) (verts []int) {
	for _, m := range o.Faces[idxface] {
		if m < o.Nbasic {
			verts = append(verts, m)
		}
	}
	return
}

// Values computes S at r
func (o *GeoTrans) Values(S, r []float64) {
	o.Func(S, nil, r, false)
}

// alloc_dSdR allocates a derivatives matrix
func (o *GeoTrans) alloc_dSdR() [][]float64 {
	return utl.Alloc(o.Nverts, o.Dim)
}

// definitions ////////////////////////////////////////////////////////////////////////////////////

func init() {

	// lin2
	geoallocators["lin2"] = func() *GeoTrans {
		return &GeoTrans{
			Name: "lin2", Dim: 1, Nverts: 2, Simplex: true, Linear: true, Basic: "lin2", Nbasic: 2,
			NatCoords: [][]float64{{0}, {1}},
			Faces:     [][]int{{1}, {0}},
			FaceType:  "",
			Simplices: [][]int{{0, 1}},
			VtkCode:   3,
			Func: func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
				S[0], S[1] = 1.0-r[0], r[0]
				if derivs {
					dSdR[0][0], dSdR[1][0] = -1, 1
				}
			},
		}
	}

	// lin3: nodes 0, 1 and mid-node
	geoallocators["lin3"] = func() *GeoTrans {
		return &GeoTrans{
			Name: "lin3", Dim: 1, Nverts: 3, Simplex: true, Basic: "lin2", Nbasic: 2,
			NatCoords: [][]float64{{0}, {1}, {0.5}},
			Faces:     [][]int{{1}, {0}},
			Simplices: [][]int{{0, 1}},
			VtkCode:   21,
			Func: func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
				x := r[0]
				S[0] = (1.0 - x) * (1.0 - 2.0*x)
				S[1] = x * (2.0*x - 1.0)
				S[2] = 4.0 * x * (1.0 - x)
				if derivs {
					dSdR[0][0] = 4.0*x - 3.0
					dSdR[1][0] = 4.0*x - 1.0
					dSdR[2][0] = 4.0 - 8.0*x
				}
			},
		}
	}

	// tri3
	geoallocators["tri3"] = func() *GeoTrans {
		return &GeoTrans{
			Name: "tri3", Dim: 2, Nverts: 3, Simplex: true, Linear: true, Basic: "tri3", Nbasic: 3,
			NatCoords: [][]float64{{0, 0}, {1, 0}, {0, 1}},
			Faces:     [][]int{{1, 2}, {0, 2}, {0, 1}},
			FaceType:  "lin2",
			Simplices: [][]int{{0, 1, 2}},
			VtkCode:   5,
			Func: func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
				S[0], S[1], S[2] = 1.0-r[0]-r[1], r[0], r[1]
				if derivs {
					dSdR[0][0], dSdR[0][1] = -1, -1
					dSdR[1][0], dSdR[1][1] = 1, 0
					dSdR[2][0], dSdR[2][1] = 0, 1
				}
			},
		}
	}

	// tri6: vertices then mid-nodes of edges 0-1, 1-2, 2-0
	geoallocators["tri6"] = func() *GeoTrans {
		return &GeoTrans{
			Name: "tri6", Dim: 2, Nverts: 6, Simplex: true, Basic: "tri3", Nbasic: 3,
			NatCoords: [][]float64{{0, 0}, {1, 0}, {0, 1}, {0.5, 0}, {0.5, 0.5}, {0, 0.5}},
			Faces:     [][]int{{1, 2, 4}, {0, 2, 5}, {0, 1, 3}},
			FaceType:  "lin3",
			Simplices: [][]int{{0, 1, 2}},
			VtkCode:   22,
			Func: func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
				L0, L1, L2 := 1.0-r[0]-r[1], r[0], r[1]
				S[0] = L0 * (2.0*L0 - 1.0)
				S[1] = L1 * (2.0*L1 - 1.0)
				S[2] = L2 * (2.0*L2 - 1.0)
				S[3] = 4.0 * L0 * L1
				S[4] = 4.0 * L1 * L2
				S[5] = 4.0 * L2 * L0
				if derivs {
					// dL0 = (-1,-1), dL1 = (1,0), dL2 = (0,1)
					d0 := 4.0*L0 - 1.0
					dSdR[0][0], dSdR[0][1] = -d0, -d0
					dSdR[1][0], dSdR[1][1] = 4.0*L1-1.0, 0
					dSdR[2][0], dSdR[2][1] = 0, 4.0*L2-1.0
					dSdR[3][0], dSdR[3][1] = 4.0*(L0-L1), -4.0*L1
					dSdR[4][0], dSdR[4][1] = 4.0*L2, 4.0*L1
					dSdR[5][0], dSdR[5][1] = -4.0*L2, 4.0*(L0-L2)
				}
			},
		}
	}

	// qua4
	geoallocators["qua4"] = func() *GeoTrans {
		return &GeoTrans{
			Name: "qua4", Dim: 2, Nverts: 4, Basic: "qua4", Nbasic: 4,
			NatCoords: [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
			Faces:     [][]int{{1, 3}, {0, 2}, {2, 3}, {0, 1}},
			FaceType:  "lin2",
			Simplices: [][]int{{3, 0, 2}, {3, 0, 1}},
			VtkCode:   9,
			VtkOrder:  []int{0, 1, 3, 2},
			Func: func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
				x, y := r[0], r[1]
				S[0] = (1.0 - x) * (1.0 - y)
				S[1] = x * (1.0 - y)
				S[2] = (1.0 - x) * y
				S[3] = x * y
				if derivs {
					dSdR[0][0], dSdR[0][1] = -(1.0 - y), -(1.0 - x)
					dSdR[1][0], dSdR[1][1] = 1.0-y, -x
					dSdR[2][0], dSdR[2][1] = -y, 1.0-x
					dSdR[3][0], dSdR[3][1] = y, x
				}
			},
		}
	}

	// tet4
	geoallocators["tet4"] = func() *GeoTrans {
		return &GeoTrans{
			Name: "tet4", Dim: 3, Nverts: 4, Simplex: true, Linear: true, Basic: "tet4", Nbasic: 4,
			NatCoords: [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
			Faces:     [][]int{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}},
			FaceType:  "tri3",
			Simplices: [][]int{{0, 1, 2, 3}},
			VtkCode:   10,
			Func: func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
				S[0], S[1], S[2], S[3] = 1.0-r[0]-r[1]-r[2], r[0], r[1], r[2]
				if derivs {
					for m := 0; m < 4; m++ {
						for i := 0; i < 3; i++ {
							dSdR[m][i] = 0
						}
					}
					dSdR[0][0], dSdR[0][1], dSdR[0][2] = -1, -1, -1
					dSdR[1][0], dSdR[2][1], dSdR[3][2] = 1, 1, 1
				}
			},
		}
	}

	// hex8: node m has coordinates (m&1, (m>>1)&1, (m>>2)&1)
	geoallocators["hex8"] = func() *GeoTrans {
		nat := make([][]float64, 8)
		for m := 0; m < 8; m++ {
			nat[m] = []float64{float64(m & 1), float64((m >> 1) & 1), float64((m >> 2) & 1)}
		}
		return &GeoTrans{
			Name: "hex8", Dim: 3, Nverts: 8, Basic: "hex8", Nbasic: 8,
			NatCoords: nat,
			Faces:     [][]int{{1, 3, 5, 7}, {0, 2, 4, 6}, {2, 3, 6, 7}, {0, 1, 4, 5}, {4, 5, 6, 7}, {0, 1, 2, 3}},
			FaceType:  "qua4",
			Simplices: [][]int{{3, 7, 0, 1}, {7, 0, 5, 4}, {7, 0, 1, 5}, {3, 7, 0, 2}, {6, 7, 0, 4}, {6, 7, 0, 2}},
			VtkCode:   12,
			VtkOrder:  []int{0, 1, 3, 2, 4, 5, 7, 6},
			Func: func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
				for m := 0; m < 8; m++ {
					var f [3]float64
					var df [3]float64
					for i := 0; i < 3; i++ {
						if (m>>uint(i))&1 == 1 {
							f[i], df[i] = r[i], 1
						} else {
							f[i], df[i] = 1.0-r[i], -1
						}
					}
					S[m] = f[0] * f[1] * f[2]
					if derivs {
						dSdR[m][0] = df[0] * f[1] * f[2]
						dSdR[m][1] = f[0] * df[1] * f[2]
						dSdR[m][2] = f[0] * f[1] * df[2]
					}
				}
			},
		}
	}
}
