// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package flashio defines the flash driver capability the journal store
// consumes, and provides a RAM-backed simulator of that capability for
// tests and for jflash's file-backed region.
//
// The real boundary (read(addr,len), write(addr,bytes), eraseSector(addr))
// is an external collaborator on the target device; nothing in this
// package talks to actual hardware.
package flashio

import "fmt"

// Driver models raw NOR-style flash. Write may only clear bits (program
// ones to zeros); ErasePage resets an entire page back to all-ones.
// Implementations must accept any address aligned within the managed
// region for Read, and any address produced by the journal's own
// allocator for Write.
type Driver interface {
	Read(dst []byte, addr uint32) error
	Write(addr uint32, data []byte) error
	ErasePage(pageAddr uint32) error
}

// ErrOutOfRange is returned when an operation addresses bytes outside the
// driver's configured region.
type ErrOutOfRange struct {
	Addr uint32
	N    int
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("flashio: address 0x%X+%d out of range", e.Addr, e.N)
}

// ErrNotErased is returned by Write when the requested bytes would need to
// flip a bit from 0 to 1, which flash hardware cannot do. journal's
// partial-fill WriteFile also returns it when a target byte is no longer
// erased.
type ErrNotErased struct {
	Addr uint32
}

func (e ErrNotErased) Error() string {
	return fmt.Sprintf("flashio: write at 0x%X requires setting an already-cleared bit", e.Addr)
}
