// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/shp"
)

// vtkNodes returns the local nodes of gt in the order expected by VTK
func vtkNodes(gt *shp.GeoTrans) []int {
	if gt.VtkOrder != nil {
		return gt.VtkOrder
	}
	nodes := make([]int, gt.Nverts)
	for j := range nodes {
		nodes[j] = j
	}
	return nodes
}

// topology writes points and cells; each cell owns its points. Returns the number of points
func topology(buf *bytes.Buffer, m *inp.Mesh) (npts int) {

	// coordinates
	io.Ff(buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, c := range m.Cells {
		X := m.Points(c.Id)
		for _, j := range vtkNodes(c.Gt) {
			var x [3]float64
			copy(x[:], X[j])
			io.Ff(buf, "%23.15e %23.15e %23.15e ", x[0], x[1], x[2])
			npts++
		}
	}
	io.Ff(buf, "\n</DataArray>\n</Points>\n")

	// connectivities
	io.Ff(buf, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	var k int
	for _, c := range m.Cells {
		for j := 0; j < c.Gt.Nverts; j++ {
			io.Ff(buf, "%d ", k+j)
		}
		k += c.Gt.Nverts
	}

	// offsets
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	var offset int
	for _, c := range m.Cells {
		offset += c.Gt.Nverts
		io.Ff(buf, "%d ", offset)
	}

	// types
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for _, c := range m.Cells {
		io.Ff(buf, "%d ", c.Gt.VtkCode)
	}
	io.Ff(buf, "\n</DataArray>\n</Cells>\n")
	return
}

// cdataWrite writes ids and tags of cells
func cdataWrite(buf *bytes.Buffer, m *inp.Mesh) {
	io.Ff(buf, "<CellData Scalars=\"TheScalars\">\n")
	io.Ff(buf, "<DataArray type=\"Int32\" Name=\"eid\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, c := range m.Cells {
		io.Ff(buf, "%d ", c.Id)
	}
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"tag\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, c := range m.Cells {
		io.Ff(buf, "%d ", iabs(c.Tag))
	}
	io.Ff(buf, "\n</DataArray>\n</CellData>\n")
}

func iabs(val int) int {
	if val < 0 {
		return -val
	}
	return val
}
