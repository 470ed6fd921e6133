// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package journal

// encodeName packs name into a fixed NameSize array, zero-padded, and
// reports whether name fit.
func encodeName(name string) (out [NameSize]byte, ok bool) {
	if len(name) == 0 || len(name) > NameSize {
		return out, false
	}
	copy(out[:], name)
	return out, true
}

// decodeName trims the zero padding encodeName adds.
func decodeName(raw [NameSize]byte) string {
	n := NameSize
	for n > 0 && raw[n-1] == 0 {
		n--
	}
	return string(raw[:n])
}

// alignDown rounds v down to the nearest multiple of 4.
func alignDown(v uint32) uint32 {
	return v - (v % 4)
}

// alignUp rounds v up to the nearest multiple of 4.
func alignUp(v uint32) uint32 {
	if rem := v % 4; rem != 0 {
		return v + (4 - rem)
	}
	return v
}

// isErased reports whether every byte in buf equals erasedByte.
func isErased(buf []byte, erasedByte byte) bool {
	for _, b := range buf {
		if b != erasedByte {
			return false
		}
	}
	return true
}
