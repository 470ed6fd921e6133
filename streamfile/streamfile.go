// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package streamfile implements an append-friendly stream abstraction
// layered on top of journal.Store: a stream's bytes are spread across a
// run of sibling chunk records sharing a common base name, the last byte
// of the fixed-width record name carrying the chunk index. End of written
// data within a chunk is detected by the flash-erased sentinel byte,
// exactly as the original firmware this component is modeled on does.
//
// Grounded on original_source/src/jswrap_storage.c
// (jswrap_storage_open/_read_internal/_write/_erase): the Go code mirrors
// its control flow chunk by chunk rather than translating it literally.
package streamfile

import (
	"flashjournal/journal"
)

// Mode selects how a File was opened. Modeled as a Go enum type rather
// than a bare byte per spec.md's "Mode tag" design note.
type Mode int

const (
	// ModeRead opens an existing stream for Read/ReadLine only.
	ModeRead Mode = iota + 1
	// ModeWrite truncates any existing stream with the same name and
	// opens a fresh one for Write only.
	ModeWrite
	// ModeAppend resumes an existing stream (or creates one if absent)
	// positioned after its last written byte, for Write only.
	ModeAppend
)

// File is a handle onto a chunked stream: {baseName, chunk, offset, mode}.
// It caches no flash address; every operation looks its chunk up by name.
type File struct {
	store    *journal.Store
	base     string
	chunkCap uint32
	chunk    byte
	offset   uint32
	mode     Mode
	closed   bool
}

// chunkName places base in the first journal.NameSize-1 bytes of a record
// name (zero-padded) and chunk in the last byte, per spec.md's "name[0:N-1]
// + 1-byte chunk index" layout. Padding base out to a fixed width (rather
// than just concatenating) keeps distinct base names from colliding once
// a chunk byte is appended.
func chunkName(base string, chunk byte) string {
	buf := make([]byte, journal.NameSize)
	copy(buf, base)
	buf[journal.NameSize-1] = chunk
	return string(buf)
}

func validateBase(base string) bool {
	return len(base) > 0 && len(base) <= journal.NameSize-1
}

// Open opens a stream named name against store in the given mode.
//
// ModeAppend always re-scans the chunk chain from chunk 1 rather than
// trusting any caller-supplied prior position, resolving the original
// firmware's "look through a pre-opened file to find the end" TODO: a
// fresh scan is both simpler and already required by the rule that
// on-flash addresses are not stable across a Compact.
func Open(store *journal.Store, name string, mode Mode) (*File, error) {
	if !validateBase(name) {
		return nil, ErrInvalidName
	}
	switch mode {
	case ModeRead:
		if !store.FindFile(chunkName(name, 1)) {
			return nil, journal.ErrNotFound
		}
		return &File{store: store, base: name, chunkCap: store.ChunkSize(), chunk: 1, offset: 0, mode: mode}, nil
	case ModeWrite:
		f := &File{store: store, base: name, chunkCap: store.ChunkSize(), chunk: 1, offset: 0, mode: mode}
		if err := f.eraseChunks(); err != nil {
			return nil, err
		}
		return f, nil
	case ModeAppend:
		f := &File{store: store, base: name, chunkCap: store.ChunkSize(), mode: mode}
		if err := f.resumeForAppend(); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, ErrInvalidMode
	}
}

func (f *File) eraseChunks() error {
	for chunk := 1; chunk <= 255; chunk++ {
		name := chunkName(f.base, byte(chunk))
		if !f.store.FindFile(name) {
			break
		}
		if err := f.store.EraseFile(name); err != nil {
			return err
		}
	}
	return nil
}

// resumeForAppend finds the last chunk in the chain and the offset of its
// first erased (unwritten) byte, positioning at chunk 1 offset 0 if the
// stream does not exist yet (the chunk itself is created by the first
// Write). A chunk that is entirely full (no erased byte found in it)
// advances the append position to a brand new next chunk rather than
// leaving offset sitting at chunkCap, since a full chunk with no sentinel
// means the stream's true end is the chunk boundary itself.
func (f *File) resumeForAppend() error {
	// next := chunk+1 wraps 255 to 0, a chunk index that's never assigned,
	// so the loop naturally stops at chunk 255 without a special case —
	// whether chunk 255 itself still has room is for the body scan below
	// to decide, not this chain walk.
	chunk := byte(1)
	for {
		if !f.store.FindFile(chunkName(f.base, chunk)) {
			break
		}
		next := chunk + 1
		if next == 0 || !f.store.FindFile(chunkName(f.base, next)) {
			break
		}
		chunk = next
	}
	if !f.store.FindFile(chunkName(f.base, chunk)) {
		f.chunk = chunk
		f.offset = 0
		return nil
	}
	body, err := f.store.ReadFile(chunkName(f.base, chunk))
	if err != nil {
		return err
	}
	off := sentinelOffset(body, f.store.ErasedByte())
	if off == uint32(len(body)) {
		next := chunk + 1
		if next == 0 {
			return ErrFileTooBig
		}
		f.chunk = next
		f.offset = 0
		return nil
	}
	f.chunk = chunk
	f.offset = off
	return nil
}

func sentinelOffset(body []byte, erasedByte byte) uint32 {
	for i, b := range body {
		if b == erasedByte {
			return uint32(i)
		}
	}
	return uint32(len(body))
}

func (f *File) checkOpenForRead() error {
	if f.closed {
		return ErrClosed
	}
	if f.mode != ModeRead {
		return ErrWrongMode
	}
	return nil
}

func (f *File) checkOpenForWrite() error {
	if f.closed {
		return ErrClosed
	}
	if f.mode != ModeWrite && f.mode != ModeAppend {
		return ErrWrongMode
	}
	return nil
}

// Read fills p with up to len(p) bytes starting at the current position,
// stopping at the stream's end-of-data sentinel or the end of the last
// chunk. At end of stream it returns n == 0 with a nil error rather than
// io.EOF; callers check n to detect it, matching the
// fixed-size-internal-buffer read loop of the original implementation.
func (f *File) Read(p []byte) (int, error) {
	if err := f.checkOpenForRead(); err != nil {
		return 0, err
	}
	return f.readInternal(p, false)
}

// ReadLine behaves like Read but stops after (and includes) the first
// newline byte it copies, or at the stream's end.
func (f *File) ReadLine(p []byte) (int, error) {
	if err := f.checkOpenForRead(); err != nil {
		return 0, err
	}
	return f.readInternal(p, true)
}

func (f *File) readInternal(p []byte, stopAtNewline bool) (int, error) {
	total := 0
	for total < len(p) {
		body, err := f.store.ReadFile(chunkName(f.base, f.chunk))
		if err != nil {
			return total, err
		}
		for f.offset < uint32(len(body)) && total < len(p) {
			b := body[f.offset]
			if b == f.store.ErasedByte() {
				return total, nil
			}
			p[total] = b
			total++
			f.offset++
			if stopAtNewline && b == '\n' {
				return total, nil
			}
		}
		if f.offset < uint32(len(body)) {
			// p filled before exhausting this chunk's written data.
			return total, nil
		}
		next := f.chunk + 1
		if next == 0 || !f.store.FindFile(chunkName(f.base, next)) {
			return total, nil
		}
		f.chunk = next
		f.offset = 0
	}
	return total, nil
}

// Write appends p starting at the current position, splitting across a
// freshly created sibling chunk whenever the current one fills up.
func (f *File) Write(p []byte) (int, error) {
	if err := f.checkOpenForWrite(); err != nil {
		return 0, err
	}
	written := 0
	for len(p) > 0 {
		room := f.chunkCap - f.offset
		n := uint32(len(p))
		if n > room {
			n = room
		}
		if n > 0 {
			if err := f.store.WriteFile(chunkName(f.base, f.chunk), p[:n], journal.FlagNone, f.offset, f.chunkCap); err != nil {
				return written, err
			}
			f.offset += n
			written += int(n)
			p = p[n:]
		}
		if len(p) > 0 {
			if f.chunk == 255 {
				return written, ErrFileTooBig
			}
			f.chunk++
			f.offset = 0
		}
	}
	return written, nil
}

// Erase removes every chunk of the stream and closes the handle.
func (f *File) Erase() error {
	if f.closed {
		return ErrClosed
	}
	if err := f.eraseChunks(); err != nil {
		return err
	}
	f.closed = true
	return nil
}

// Close marks the handle closed. Flash writes are already durable by the
// time Write returns, so Close performs no I/O of its own.
func (f *File) Close() error {
	f.closed = true
	return nil
}
