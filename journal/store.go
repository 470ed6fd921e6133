// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package journal implements a journaling file store over raw flash
// memory: short fixed-width names, append-only records spread across
// pages, live-record lookup via an in-memory index rebuilt by a scan on
// Open, and a two-phase RAM-staged Compact.
//
// Grounded on the teacher flatfile package's put/get/delete/Len/Walk
// orchestration in flatfile.go (validate, allocate or find, mutate the
// backing store, update the index, confirm) and on header.go/cells.go's
// in-memory index of live records keyed by name.
package journal

import (
	"encoding/binary"
	"hash/crc32"
	"sort"

	"flashjournal/internal/flashio"
)

type recordLoc struct {
	addr  uint32
	size  uint32
	flags Flag
}

// Store is a journaling file store over a flashio.Driver-backed region.
// It is not internally synchronized: concurrent callers must serialize
// their own access, matching the single-writer model of the firmware
// this component is modeled on. See cmd/jflash for the layer that adds a
// mutex around a shared Store.
type Store struct {
	cfg       Config
	drv       flashio.Driver
	chunkSz   uint32
	index     map[[NameSize]byte]recordLoc
	writePtr  uint32
	regionEnd uint32
}

// Open validates cfg, scans the region through drv to rebuild the live
// record index, and returns a ready Store.
func Open(drv flashio.Driver, cfg Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Store{
		cfg:       cfg,
		drv:       drv,
		chunkSz:   cfg.chunkSize(),
		index:     make(map[[NameSize]byte]recordLoc),
		writePtr:  cfg.BaseAddr,
		regionEnd: cfg.BaseAddr + cfg.RegionSize,
	}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

// ChunkSize returns the largest single record body length (including any
// FlagCRC32 trailer) the region's page size allows.
func (s *Store) ChunkSize() uint32 { return s.chunkSz }

// ErasedByte returns the configured erased-flash sentinel byte.
func (s *Store) ErasedByte() byte { return s.cfg.ErasedByte }

// pageEnd returns the address one past the end of the page containing addr.
func (s *Store) pageEnd(addr uint32) uint32 {
	rel := addr - s.cfg.BaseAddr
	pageIdx := rel / s.cfg.PageSize
	return s.cfg.BaseAddr + (pageIdx+1)*s.cfg.PageSize
}

// scan walks the region header by header from BaseAddr, rebuilding the
// live index and positioning writePtr just past the last record found. A header
// region that reads back as fully erased marks the end of written data
// for that page; scan then advances to the next page. This distinguishes
// "never written" from "live" because a live record's status field is
// itself the erased pattern (statusLive); only the whole header being
// erased proves the slot was never written.
func (s *Store) scan() error {
	buf := make([]byte, headerSize)
	addr := s.cfg.BaseAddr
	// writeEnd tracks the address immediately after the last record found
	// anywhere in the region (live or deleted). alloc() only ever moves
	// writePtr forward, skipping the unused tail of a page when a record
	// doesn't fit rather than ever revisiting it, so a page with such a
	// skipped tail can be followed by further pages that still hold live
	// data; writePtr must therefore be the high-water mark over the whole
	// region, not wherever the first erased-looking gap is encountered.
	writeEnd := addr
	for addr < s.regionEnd {
		pageEnd := s.pageEnd(addr)
		for addr+uint32(headerSize) <= pageEnd {
			if err := s.drv.Read(buf, addr); err != nil {
				return err
			}
			if isErased(buf, s.cfg.ErasedByte) {
				break
			}
			h := unmarshalHeader(buf)
			bodyAddr := addr + uint32(headerSize)
			if h.isLive() {
				s.index[h.name] = recordLoc{addr: addr, size: h.size, flags: h.flags}
			} else {
				delete(s.index, h.name)
			}
			addr = bodyAddr + alignUp(h.size)
			writeEnd = addr
		}
		addr = pageEnd
	}
	s.writePtr = writeEnd
	return nil
}

// alloc reserves room for a record whose body is bodyLen bytes, skipping
// to the next page when the current page has insufficient room, and
// returns the header address.
func (s *Store) alloc(bodyLen uint32) (uint32, error) {
	if bodyLen > s.chunkSz {
		return 0, ErrRecordTooLarge
	}
	required := uint32(headerSize) + alignUp(bodyLen)
	addr := s.writePtr
	if addr+required > s.pageEnd(addr) {
		addr = s.pageEnd(addr)
	}
	if addr+required > s.regionEnd {
		return 0, ErrNoSpace
	}
	s.writePtr = addr + required
	return addr, nil
}

func (s *Store) markDeleted(loc recordLoc) error {
	statusAddr := loc.addr + 4 + NameSize + 2
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(statusDeleted))
	return s.drv.Write(statusAddr, buf)
}

// writeRecord allocates and writes a brand new, fully-populated record
// (used both for ordinary creates and for Compact's replay pass).
func (s *Store) writeRecord(name [NameSize]byte, body []byte, flags Flag) (recordLoc, error) {
	addr, err := s.alloc(uint32(len(body)))
	if err != nil {
		return recordLoc{}, err
	}
	h := header{size: uint32(len(body)), name: name, flags: flags, status: statusLive}
	if err := s.drv.Write(addr, h.marshal()); err != nil {
		return recordLoc{}, err
	}
	if len(body) > 0 {
		if err := s.drv.Write(addr+uint32(headerSize), body); err != nil {
			return recordLoc{}, err
		}
	}
	return recordLoc{addr: addr, size: h.size, flags: flags}, nil
}

// WriteFile writes data into the named record.
//
// When offset is 0, WriteFile creates the record if absent, or supersedes
// an existing live record of the same name in place (the old record is
// marked deleted and a new one is appended) — both full-write forms
// always succeed regardless of any prior record, matching the concrete
// round-trip scenario spec.md documents (write/write/read returns the
// latest value).
//
// When offset is nonzero, WriteFile continues filling a record that was
// preallocated with totalSize larger than the data supplied so far
// (streamfile's incremental chunk fill); the existing record's declared
// size must equal totalSize exactly, and the target bytes are read first:
// if any of them is no longer erased, WriteFile returns
// flashio.ErrNotErased without writing.
//
// totalSize, when larger than len(data), preallocates a record of that
// size with the tail left erased; it is incompatible with FlagCRC32,
// since a checksum cannot be computed before the whole body is known.
func (s *Store) WriteFile(name string, data []byte, flags Flag, offset, totalSize uint32) error {
	key, ok := encodeName(name)
	if !ok {
		return ErrInvalidName
	}
	if totalSize == 0 {
		totalSize = offset + uint32(len(data))
	}
	if offset+uint32(len(data)) > totalSize {
		return ErrInvalidOffset
	}
	if flags&FlagCRC32 != 0 && (offset != 0 || totalSize != uint32(len(data))) {
		return ErrCRCWithPrealloc
	}

	existing, found := s.index[key]

	if offset != 0 {
		if !found {
			return ErrInvalidOffset
		}
		if existing.size != totalSize {
			return ErrSizeMismatch
		}
		target := existing.addr + uint32(headerSize) + offset
		cur := make([]byte, len(data))
		if err := s.drv.Read(cur, target); err != nil {
			return err
		}
		for i, b := range cur {
			if b != s.cfg.ErasedByte {
				return flashio.ErrNotErased{Addr: target + uint32(i)}
			}
		}
		return s.drv.Write(target, data)
	}

	body := data
	if flags&FlagCRC32 != 0 {
		sum := crc32.ChecksumIEEE(data)
		trailer := make([]byte, 4)
		binary.BigEndian.PutUint32(trailer, sum)
		body = append(append([]byte{}, data...), trailer...)
		totalSize = uint32(len(body))
	}
	// when totalSize > len(data) the record is preallocated: only the
	// bytes given are written now, the remainder stays erased.

	if totalSize > s.chunkSz {
		return ErrRecordTooLarge
	}

	// alloc runs before the old record is touched: if the region is out of
	// space, WriteFile must fail with the existing live record still
	// intact rather than superseding it and then discovering there was
	// nowhere to put the replacement.
	addr, err := s.alloc(totalSize)
	if err != nil {
		return err
	}
	if found {
		if err := s.markDeleted(existing); err != nil {
			return err
		}
	}
	h := header{size: totalSize, name: key, flags: flags, status: statusLive}
	if err := s.drv.Write(addr, h.marshal()); err != nil {
		return err
	}
	if len(body) > 0 {
		if err := s.drv.Write(addr+uint32(headerSize), body); err != nil {
			return err
		}
	}
	s.index[key] = recordLoc{addr: addr, size: totalSize, flags: flags}
	return nil
}

// ReadFile returns the full body of the named live record. If the record
// was written with FlagCRC32, ReadFile verifies the trailing checksum and
// strips it from the returned bytes.
func (s *Store) ReadFile(name string) ([]byte, error) {
	key, ok := encodeName(name)
	if !ok {
		return nil, ErrInvalidName
	}
	loc, found := s.index[key]
	if !found {
		return nil, ErrNotFound
	}
	return s.readRaw(loc)
}

func (s *Store) readRaw(loc recordLoc) ([]byte, error) {
	buf := make([]byte, loc.size)
	if loc.size > 0 {
		if err := s.drv.Read(buf, loc.addr+uint32(headerSize)); err != nil {
			return nil, err
		}
	}
	if loc.flags&FlagCRC32 != 0 {
		if len(buf) < 4 {
			return nil, ErrChecksumFailed
		}
		data := buf[:len(buf)-4]
		want := binary.BigEndian.Uint32(buf[len(buf)-4:])
		if crc32.ChecksumIEEE(data) != want {
			return nil, ErrChecksumFailed
		}
		return data, nil
	}
	return buf, nil
}

// FindFile reports whether a live record with the given name exists.
func (s *Store) FindFile(name string) bool {
	key, ok := encodeName(name)
	if !ok {
		return false
	}
	_, found := s.index[key]
	return found
}

// EraseFile marks the named live record deleted. It returns ErrNotFound
// if no live record with that name exists.
func (s *Store) EraseFile(name string) error {
	key, ok := encodeName(name)
	if !ok {
		return ErrInvalidName
	}
	loc, found := s.index[key]
	if !found {
		return ErrNotFound
	}
	if err := s.markDeleted(loc); err != nil {
		return err
	}
	delete(s.index, key)
	return nil
}

// ListFiles returns the names of all live records, sorted by name.
func (s *Store) ListFiles() []string {
	out := make([]string, 0, len(s.index))
	for k := range s.index {
		out = append(out, decodeName(k))
	}
	sort.Strings(out)
	return out
}

// GetFreeSpace reports how much room remains for new records without
// running Compact. With conservative false it returns the total free
// bytes across every remaining page. With conservative true it instead
// returns the largest single record body that could be written right
// now: a full ChunkSize whenever a fresh page remains after the current
// one (alloc moves a record that does not fit onto that page), otherwise
// the room left in the last page past a new header, capped at ChunkSize.
func (s *Store) GetFreeSpace(conservative bool) uint32 {
	if !conservative {
		return s.regionEnd - s.writePtr
	}
	if s.writePtr >= s.regionEnd {
		return 0
	}
	pageEnd := s.pageEnd(s.writePtr)
	avail := pageEnd - s.writePtr
	var room uint32
	if avail > uint32(headerSize) {
		room = avail - uint32(headerSize)
	}
	if room < s.chunkSz && pageEnd < s.regionEnd {
		return s.chunkSz
	}
	if room > s.chunkSz {
		room = s.chunkSz
	}
	return room
}

// EraseAll erases every page in the region and drops the live index.
func (s *Store) EraseAll() error {
	for addr := s.cfg.BaseAddr; addr < s.regionEnd; addr += s.cfg.PageSize {
		if err := s.drv.ErasePage(addr); err != nil {
			return err
		}
	}
	s.index = make(map[[NameSize]byte]recordLoc)
	s.writePtr = s.cfg.BaseAddr
	return nil
}

type stagedRecord struct {
	name [NameSize]byte
	body []byte
	loc  recordLoc
}

// Compact stages every live record's raw body into RAM, erases the whole
// region, then replays the staged records back in address order starting
// from BaseAddr. It fails without touching flash if the staged set would
// exceed Config.MaxCompactMemory (when nonzero). Addresses change across
// a Compact; nothing outside the Store's own index may assume otherwise.
func (s *Store) Compact() error {
	staged := make([]stagedRecord, 0, len(s.index))
	var total uint32
	for name, loc := range s.index {
		raw := make([]byte, loc.size)
		if loc.size > 0 {
			if err := s.drv.Read(raw, loc.addr+uint32(headerSize)); err != nil {
				return err
			}
		}
		staged = append(staged, stagedRecord{name: name, body: raw, loc: loc})
		total += loc.size
	}
	if s.cfg.MaxCompactMemory > 0 && total > s.cfg.MaxCompactMemory {
		return ErrCompactOutOfMemory
	}
	sort.Slice(staged, func(i, j int) bool { return staged[i].loc.addr < staged[j].loc.addr })

	if err := s.EraseAll(); err != nil {
		return err
	}
	for _, rec := range staged {
		loc, err := s.writeRecord(rec.name, rec.body, rec.loc.flags)
		if err != nil {
			return err
		}
		s.index[rec.name] = loc
	}
	return nil
}

// Len returns the number of live records.
func (s *Store) Len() int { return len(s.index) }
