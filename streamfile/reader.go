// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package streamfile

import "io"

// Reader adapts a File opened ModeRead to io.Reader, translating the
// zero-bytes-means-end-of-stream convention of File.Read into io.EOF.
// Grounded on the teacher's readseeklimit.go, which wraps an *os.File in
// a bounds-checked type satisfying a standard io interface.
type Reader struct {
	file *File
}

// NewReader wraps f, which must have been opened with ModeRead.
func NewReader(f *File) *Reader {
	return &Reader{file: f}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.file.Read(p)
	if err != nil {
		return n, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}
