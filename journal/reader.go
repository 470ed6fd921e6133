// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package journal

import "bytes"

// OpenReader returns a bounded, seekable reader over the named record's
// current body. Grounded on the teacher's readseeklimit.go
// (LimitedReadSeekCloser wrapping an *os.File to a fixed byte range); here
// the bound is simpler still since ReadFile already copies the record's
// bytes into RAM, so the reader is just a bytes.Reader over that copy
// rather than a seek-limited view over a live file descriptor.
func (s *Store) OpenReader(name string) (*bytes.Reader, error) {
	data, err := s.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
