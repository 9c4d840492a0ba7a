// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// GeoCtx holds the evaluation of a geometric transformation at one reference point of one cell.
// Quantities are computed on demand and cached until the reference point or the nodes change
//
//	N -- dimension of real space
//	P -- dimension of reference element
//	K = x·dSdR     [N][P]
//	J = |det(K)|           if N == P
//	  = sqrt|det(KᵀK)|     otherwise
//	B = K⁻ᵀ                if N == P
//	  = K·(KᵀK)⁻¹          otherwise
type GeoCtx struct {
	Gt *GeoTrans   // geometric transformation
	X  [][]float64 // [N][nverts] coordinates of nodes
	N  int         // dimension of real space
	P  int         // dimension of reference element

	// scratchpad
	r     []float64   // reference point
	y     []float64   // real point
	S     []float64   // [nverts] shape functions
	dSdR  [][]float64 // [nverts][P] derivatives of S
	k     []float64   // [N*P] K (row-major)
	b     []float64   // [N*P] B (row-major)
	kk    []float64   // [P*P] scratch
	j     float64     // J
	errJB error       // error from last J/B computation

	// flags
	haveR  bool // r has been set
	haveS  bool // S, dSdR and y are up-to-date
	haveK  bool // K is up-to-date
	haveJB bool // J and B are up-to-date
}

// NewGeoCtx returns a new context for a cell with nodes x[N][nverts]
func NewGeoCtx(gt *GeoTrans, x [][]float64) (o *GeoCtx) {
	o = new(GeoCtx)
	o.Gt = gt
	o.P = gt.Dim
	o.r = make([]float64, o.P)
	o.S = make([]float64, gt.Nverts)
	o.dSdR = gt.alloc_dSdR()
	o.kk = make([]float64, o.P*o.P)
	o.SetNodes(x)
	return
}

// SetNodes sets the coordinates of nodes and invalidates cached data
func (o *GeoCtx) SetNodes(x [][]float64) {
	o.X = x
	if len(x) != o.N {
		o.N = len(x)
		o.y = make([]float64, o.N)
		o.k = make([]float64, o.N*o.P)
		o.b = make([]float64, o.N*o.P)
	}
	o.haveS, o.haveK, o.haveJB = false, false, false
}

// SetXref sets the reference point. Cached data are invalidated only if r changes
func (o *GeoCtx) SetXref(r []float64) {
	if o.haveR {
		same := true
		for i := 0; i < o.P; i++ {
			if o.r[i] != r[i] {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	copy(o.r, r[:o.P])
	o.haveR = true
	keep := o.Gt.Linear && o.haveK // K, J and B are constant for affine maps
	o.haveS, o.haveK, o.haveJB = false, keep, keep && o.haveJB
}

// Xref returns the current reference point
func (o *GeoCtx) Xref() []float64 { return o.r }

// Xreal returns the real coordinates of the current point
func (o *GeoCtx) Xreal() []float64 {
	o.calcS()
	return o.y
}

// Shape returns the values of the transformation's shape functions and their reference derivatives
func (o *GeoCtx) Shape() (S []float64, dSdR [][]float64) {
	o.calcS()
	return o.S, o.dSdR
}

// K returns K (row-major [N][P])
func (o *GeoCtx) K() []float64 {
	if !o.haveK {
		o.calcS()
		for i := 0; i < o.N; i++ {
			for j := 0; j < o.P; j++ {
				o.k[i*o.P+j] = 0
				for m := 0; m < o.Gt.Nverts; m++ {
					o.k[i*o.P+j] += o.X[i][m] * o.dSdR[m][j]
				}
			}
		}
		o.haveK = true
	}
	return o.k
}

// J returns the Jacobian scalar
func (o *GeoCtx) J() (float64, error) {
	o.calcJB()
	return o.j, o.errJB
}

// B returns B (row-major [N][P]); grad_x(f) = B·grad_r(f)
func (o *GeoCtx) B() ([]float64, error) {
	o.calcJB()
	return o.b, o.errJB
}

// GradReal computes the real gradient g[N] from the reference gradient dr[P]
func (o *GeoCtx) GradReal(g, dr []float64) (err error) {
	o.calcJB()
	if o.errJB != nil {
		return o.errJB
	}
	for i := 0; i < o.N; i++ {
		g[i] = 0
		for j := 0; j < o.P; j++ {
			g[i] += o.b[i*o.P+j] * dr[j]
		}
	}
	return
}

// calcS computes S, dSdR and the real point
func (o *GeoCtx) calcS() {
	if o.haveS {
		return
	}
	if !o.haveR {
		chk.Panic("reference point must be set before evaluating the geometric transformation")
	}
	o.Gt.Func(o.S, o.dSdR, o.r, true)
	for i := 0; i < o.N; i++ {
		o.y[i] = 0
		for m := 0; m < o.Gt.Nverts; m++ {
			o.y[i] += o.S[m] * o.X[i][m]
		}
	}
	o.haveS = true
}

// calcJB computes J and B
func (o *GeoCtx) calcJB() {
	if o.haveJB {
		return
	}
	o.haveJB = true
	o.errJB = nil
	K := o.K()
	N, P := o.N, o.P

	// square
	if N == P {
		copy(o.kk, K)
		det := Inverse(o.kk, P)
		if math.Abs(det) < MINDET {
			o.j = 0
			o.errJB = chk.Err("non invertible matrix: det(K) = %g", det)
			return
		}
		o.j = math.Abs(det)
		for i := 0; i < N; i++ {
			for j := 0; j < P; j++ {
				o.b[i*P+j] = o.kk[j*P+i]
			}
		}
		return
	}

	// manifold: normal equations
	for i := 0; i < P; i++ {
		for j := 0; j < P; j++ {
			o.kk[i*P+j] = 0
			for k := 0; k < N; k++ {
				o.kk[i*P+j] += K[k*P+i] * K[k*P+j]
			}
		}
	}
	det := Inverse(o.kk, P)
	if math.Abs(det) < MINDET {
		o.j = 0
		o.errJB = chk.Err("non invertible matrix: det(KᵀK) = %g", det)
		return
	}
	o.j = math.Sqrt(math.Abs(det))
	for i := 0; i < N; i++ {
		for j := 0; j < P; j++ {
			o.b[i*P+j] = 0
			for k := 0; k < P; k++ {
				o.b[i*P+j] += K[i*P+k] * o.kk[k*P+j]
			}
		}
	}
}
