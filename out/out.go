// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the output of finite element fields for visualisation and plotting
package out

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
)

// Field holds a finite element field to be exported
type Field struct {
	Name string       // name; e.g. "u"
	Mf   mfem.MeshFem // space
	U    []float64    // [Mf.NbDof()] dof values
}

// check checks whether the field is consistent with mesh m
func (o *Field) check(m *inp.Mesh) error {
	if o.Name == "" {
		return chk.Err("field must have a name")
	}
	if o.Mf.Mesh() != m {
		return chk.Err("field %q is defined on another mesh", o.Name)
	}
	if len(o.U) != o.Mf.NbDof() {
		return chk.Err("field %q has %d values but its space has %d dofs", o.Name, len(o.U), o.Mf.NbDof())
	}
	return nil
}

// WriteVTU writes the mesh and the fields to dirout/fnkey.vtu (VTK unstructured grid).
// Points are duplicated cell by cell so that fields discontinuous across cracks are kept.
func WriteVTU(dirout, fnkey string, fields ...*Field) (err error) {
	if len(fields) == 0 {
		return chk.Err("at least one field is needed to write %q", fnkey)
	}
	m := fields[0].Mf.Mesh()
	for _, f := range fields {
		if err = f.check(m); err != nil {
			return
		}
	}

	// buffers
	geo := new(bytes.Buffer)
	dat := new(bytes.Buffer)

	// geometry
	npts := topology(geo, m)

	// point data
	io.Ff(dat, "<PointData>\n")
	for _, f := range fields {
		if err = pdataWrite(dat, f); err != nil {
			return
		}
	}
	io.Ff(dat, "</PointData>\n")

	// cell data
	cdataWrite(dat, m)

	// file
	var hdr, foo bytes.Buffer
	io.Ff(&hdr, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	io.Ff(&hdr, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", npts, len(m.Cells))
	io.Ff(&foo, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	return writeFile(dirout, fnkey+".vtu", &hdr, geo, dat, &foo)
}

// writeFile writes buffers to dirout/fn, creating dirout if needed
func writeFile(dirout, fn string, buffers ...*bytes.Buffer) (err error) {
	if err = os.MkdirAll(dirout, 0777); err != nil {
		return chk.Err("cannot create directory %q:\n%v", dirout, err)
	}
	fil, err := os.Create(filepath.Join(dirout, fn))
	if err != nil {
		return chk.Err("cannot create file %q:\n%v", fn, err)
	}
	defer fil.Close()
	for _, buf := range buffers {
		if _, err = fil.Write(buf.Bytes()); err != nil {
			return chk.Err("cannot write file %q:\n%v", fn, err)
		}
	}
	io.Pfblue2("file <%s> written\n", filepath.Join(dirout, fn))
	return
}
