// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/vedranvuk/binaryex"
)

// regionInfo is the sidecar persisted next to a simulated region file so
// a later jflash invocation can reopen the same region with the same
// geometry without having to repeat every flag. Adapted from the
// teacher's options.go (Options.Marshal/Unmarshal over binaryex.Write/
// binaryex.Read), which persists a flat settings struct the same way.
type regionInfo struct {
	BaseAddr   uint32
	RegionSize uint32
	PageSize   uint32
	ErasedByte byte
}

func newRegionInfo() *regionInfo {
	r := &regionInfo{}
	r.init()
	return r
}

func (r *regionInfo) init() {
	r.BaseAddr = 0
	r.RegionSize = 64 * 1024
	r.PageSize = 4096
	r.ErasedByte = 0xFF
}

// Marshal writes r to w.
func (r *regionInfo) Marshal(w io.Writer) error {
	return binaryex.Write(w, r)
}

// Unmarshal reads r's fields from reader.
func (r *regionInfo) Unmarshal(reader io.Reader) error {
	n := newRegionInfo()
	if err := binaryex.Read(reader, n); err != nil {
		return err
	}
	*r = *n
	return nil
}
