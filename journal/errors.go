// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package journal

import (
	"errors"
	"fmt"
)

// Error is the base error of the journal package.
type Error struct {
	err error
}

// Error implements error.Error().
func (e Error) Error() string {
	return fmt.Sprintf("journal: %s", e.err.Error())
}

// Unwrap implements error.Unwrap().
func (e Error) Unwrap() error {
	return e.err
}

// Errorf returns a new Error which wraps an error created from a format
// string and arguments.
func (e Error) Errorf(format string, args ...interface{}) Error {
	return Error{fmt.Errorf(format, args...)}
}

var (
	// ErrJournal is the base generic error.
	ErrJournal = Error{}

	// ErrNotFound is returned when no live record with the given name exists.
	ErrNotFound = Error{errors.New("file not found")}

	// ErrInvalidName is returned when a name is empty or longer than
	// NameSize.
	ErrInvalidName = Error{errors.New("invalid name")}

	// ErrNoSpace is returned when the region has no room left for a new
	// record of the requested size.
	ErrNoSpace = Error{errors.New("no space left in region")}

	// ErrInvalidOffset is returned when a preallocated write's offset+len
	// would exceed the record's declared totalSize, or when a nonzero
	// offset names a record that does not exist.
	ErrInvalidOffset = Error{errors.New("invalid offset for preallocated record")}

	// ErrSizeMismatch is returned when a partial write's totalSize differs
	// from the existing record's stored size.
	ErrSizeMismatch = Error{errors.New("size mismatch")}

	// ErrChecksumFailed is returned by ReadFile when FlagCRC32 is set and
	// the stored checksum does not match the record body.
	ErrChecksumFailed = Error{errors.New("checksum failed")}

	// ErrCRCWithPrealloc is returned by WriteFile when the caller asks for
	// both FlagCRC32 and a preallocated partial-fill write; a checksum
	// cannot be computed before the whole body is known.
	ErrCRCWithPrealloc = Error{errors.New("CRC32 is incompatible with preallocated partial writes")}

	// ErrCompactOutOfMemory is returned by Compact when the live record set
	// does not fit in the RAM staging buffer. Compact makes no on-flash
	// changes in this case.
	ErrCompactOutOfMemory = Error{errors.New("not enough memory to stage live records for compaction")}

	// ErrInvalidConfig is returned by Open when a Config field is zero or
	// otherwise inconsistent.
	ErrInvalidConfig = Error{errors.New("invalid config")}

	// ErrRecordTooLarge is returned when a record's header+body would not
	// fit within a single page. Records never span pages; callers that
	// need more than one page's worth of data (streamfile) split across
	// sibling records themselves.
	ErrRecordTooLarge = Error{errors.New("record too large for a single page")}
)
