// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package journal

import "encoding/binary"

// Flag is a bitmask of per-record options stored in a header's flags word.
type Flag uint16

const (
	// FlagNone marks a record with no options set.
	FlagNone Flag = 0

	// FlagCompressed is reserved for a future body codec; the journal
	// package itself never sets or interprets it.
	FlagCompressed Flag = 1 << 0

	// FlagCRC32 marks a record whose last 4 body bytes are a trailing
	// crc32.ChecksumIEEE of the preceding body bytes, checked by ReadFile.
	FlagCRC32 Flag = 1 << 1
)

type status uint16

const (
	// statusLive is the value of a freshly written (never explicitly
	// rewritten) header status field: the all-ones erased pattern. A
	// record never needs an extra write to become live, matching the
	// "erase implies live" flash convention.
	statusLive status = 0xFFFF

	// statusDeleted is written in place over statusLive to retire a
	// record (superseded by a rewrite, or explicitly erased) without
	// needing a whole-page erase.
	statusDeleted status = 0x7FFF
)

// headerSize is the fixed on-flash byte width of a header: size(4) +
// name(NameSize) + flags(2) + status(2).
const headerSize = 4 + NameSize + 2 + 2

// header is the fixed-width record header written at the start of every
// record. It is encoded by hand with encoding/binary rather than binaryex
// because the page scanner needs a compile-time-constant stride to step
// from one record to the next; see SPEC_FULL.md §4.4.
type header struct {
	size   uint32
	name   [NameSize]byte
	flags  Flag
	status status
}

func (h header) marshal() []byte {
	buf := make([]byte, headerSize)
	binary.BigEndian.PutUint32(buf[0:4], h.size)
	copy(buf[4:4+NameSize], h.name[:])
	binary.BigEndian.PutUint16(buf[4+NameSize:4+NameSize+2], uint16(h.flags))
	binary.BigEndian.PutUint16(buf[4+NameSize+2:headerSize], uint16(h.status))
	return buf
}

func unmarshalHeader(buf []byte) header {
	var h header
	h.size = binary.BigEndian.Uint32(buf[0:4])
	copy(h.name[:], buf[4:4+NameSize])
	h.flags = Flag(binary.BigEndian.Uint16(buf[4+NameSize : 4+NameSize+2]))
	h.status = status(binary.BigEndian.Uint16(buf[4+NameSize+2 : headerSize]))
	return h
}

// isLive reports whether the header's status marks it as a live record.
func (h header) isLive() bool {
	return h.status == statusLive
}
