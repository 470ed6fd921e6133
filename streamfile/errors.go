// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package streamfile

import (
	"errors"
	"fmt"
)

// Error is the base error of the streamfile package.
type Error struct {
	err error
}

// Error implements error.Error().
func (e Error) Error() string {
	return fmt.Sprintf("streamfile: %s", e.err.Error())
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
	// ErrStreamFile is the base generic error.
	ErrStreamFile = Error{}

	// ErrInvalidMode is returned by Open with a Mode value other than
	// ModeRead, ModeWrite or ModeAppend.
	ErrInvalidMode = Error{errors.New("invalid mode")}

	// ErrWrongMode is returned when Read/ReadLine is called on a file not
	// opened ModeRead, or Write is called on a file opened ModeRead.
	ErrWrongMode = Error{errors.New("operation not permitted in this mode")}

	// ErrInvalidName is returned when name is empty or longer than
	// journal.NameSize-1 bytes (the last byte of a record name is
	// reserved for the chunk index).
	ErrInvalidName = Error{errors.New("invalid stream name")}

	// ErrFileTooBig is returned by Write when a stream would need a 256th
	// chunk; chunk indices are a single byte in the range 1-255.
	ErrFileTooBig = Error{errors.New("stream exceeds maximum chunk count")}

	// ErrClosed is returned by any operation on a File after Close.
	ErrClosed = Error{errors.New("file is closed")}
)
