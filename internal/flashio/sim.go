// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package flashio

import (
	"io"
	"os"
)

// Sim is a RAM-backed Driver. It pre-fills its region with erasedByte and
// enforces the one-directional bit-clearing contract real flash has, the
// way a hardware part would reject (or silently corrupt) an illegal
// program operation.
//
// Grounded on the teacher's per-page *os.File management in stream.go: Sim
// collapses that same "one region split into fixed pages" idea onto a
// single contiguous buffer, since flash is one address space rather than
// many small files.
type Sim struct {
	base       uint32
	pageSize   uint32
	erasedByte byte
	data       []byte
}

// NewSim returns a Sim covering [base, base+size) pre-filled with
// erasedByte, split into pages of pageSize bytes.
func NewSim(base, size, pageSize uint32, erasedByte byte) *Sim {
	data := make([]byte, size)
	fill(data, erasedByte)
	return &Sim{base: base, pageSize: pageSize, erasedByte: erasedByte, data: data}
}

// NewFileBackedSim is like NewSim but persists the region in a single file
// on disk, loading prior state whenever the file is non-empty. It does not
// check that an existing file's length matches size.
// Grounded on stream.go's newPageFile (OpenFile + Truncate to preallocate).
func NewFileBackedSim(path string, base, size, pageSize uint32, erasedByte byte) (*Sim, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	data := make([]byte, size)
	if info.Size() == 0 {
		fill(data, erasedByte)
		if _, err := f.Write(data); err != nil {
			return nil, err
		}
	} else {
		if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
			return nil, err
		}
	}
	return &Sim{base: base, pageSize: pageSize, erasedByte: erasedByte, data: data}, nil
}

// Flush writes the current region contents back to path, overwriting it.
func (s *Sim) Flush(path string) error {
	return os.WriteFile(path, s.data, 0644)
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}

func (s *Sim) offset(addr uint32, n int) (int, error) {
	if addr < s.base || uint64(addr-s.base)+uint64(n) > uint64(len(s.data)) {
		return 0, ErrOutOfRange{Addr: addr, N: n}
	}
	return int(addr - s.base), nil
}

// Read implements Driver.
func (s *Sim) Read(dst []byte, addr uint32) error {
	off, err := s.offset(addr, len(dst))
	if err != nil {
		return err
	}
	copy(dst, s.data[off:off+len(dst)])
	return nil
}

// Write implements Driver. It only permits bits to move from 1 to 0;
// attempting to set an already-cleared bit returns ErrNotErased rather
// than silently corrupting the region, so contract violations surface
// immediately instead of as mysterious data loss.
func (s *Sim) Write(addr uint32, data []byte) error {
	off, err := s.offset(addr, len(data))
	if err != nil {
		return err
	}
	for i, want := range data {
		cur := s.data[off+i]
		if cur&want != want {
			return ErrNotErased{Addr: addr + uint32(i)}
		}
	}
	copy(s.data[off:off+len(data)], data)
	return nil
}

// ErasePage implements Driver.
func (s *Sim) ErasePage(pageAddr uint32) error {
	off, err := s.offset(pageAddr, int(s.pageSize))
	if err != nil {
		return err
	}
	fill(s.data[off:off+int(s.pageSize)], s.erasedByte)
	return nil
}
