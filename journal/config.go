// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package journal

// NameSize is the fixed width, in bytes, of a record name. Shorter names
// are zero-padded; longer names are rejected by WriteFile, ReadFile and
// EraseFile.
const NameSize = 8

// Config describes the flash region a Store manages. All fields are
// boot-time constants; nothing here changes once a Store is open.
type Config struct {
	// BaseAddr is the first address of the managed region.
	BaseAddr uint32

	// RegionSize is the total number of bytes the region spans. Must be a
	// multiple of PageSize.
	RegionSize uint32

	// PageSize is the erase-unit size of the underlying flash.
	PageSize uint32

	// ErasedByte is the value flash reads as after an erase. 0xFF on
	// virtually all NOR parts; configurable per spec.md's design note.
	ErasedByte byte

	// MaxCompactMemory caps the RAM Compact may stage live records into
	// before rewriting them. Zero means unlimited. A firmware build with a
	// small static buffer sets this so Compact fails fast (and leaves
	// flash untouched) instead of assuming host-sized RAM.
	MaxCompactMemory uint32
}

func (c Config) validate() error {
	switch {
	case c.RegionSize == 0:
		return ErrInvalidConfig.Errorf("region size must be nonzero")
	case c.PageSize == 0:
		return ErrInvalidConfig.Errorf("page size must be nonzero")
	case c.RegionSize%c.PageSize != 0:
		return ErrInvalidConfig.Errorf("region size %d is not a multiple of page size %d", c.RegionSize, c.PageSize)
	case uint64(c.PageSize) <= uint64(headerSize):
		return ErrInvalidConfig.Errorf("page size %d too small to hold a record header of %d bytes", c.PageSize, headerSize)
	}
	return nil
}

func (c Config) pageCount() uint32 {
	return c.RegionSize / c.PageSize
}

// chunkSize returns the largest record body length that can be written
// without straddling a page boundary, rounded down to a 4-byte multiple so
// header-aligned scanning never lands off-stride on the final bytes of a
// maximally sized record.
func (c Config) chunkSize() uint32 {
	return alignDown(c.PageSize - uint32(headerSize))
}
