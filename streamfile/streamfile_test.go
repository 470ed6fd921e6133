// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package streamfile

import (
	"bytes"
	"testing"

	"flashjournal/internal/flashio"
	"flashjournal/journal"
)

func newTestStore(t *testing.T, pageSize, regionSize uint32) *journal.Store {
	t.Helper()
	sim := flashio.NewSim(0, regionSize, pageSize, 0xFF)
	s, err := journal.Open(sim, journal.Config{BaseAddr: 0, RegionSize: regionSize, PageSize: pageSize, ErasedByte: 0xFF})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// headerSize mirrors journal's internal fixed header width (size+name+
// flags+status) so tests can pick a page size that yields a convenient
// chunk capacity without importing journal's unexported constant.
const headerSize = 4 + journal.NameSize + 2 + 2

func testChunkName(base string, chunk byte) string {
	buf := make([]byte, journal.NameSize)
	copy(buf, base)
	buf[journal.NameSize-1] = chunk
	return string(buf)
}

func TestWriteReadSingleChunk(t *testing.T) {
	s := newTestStore(t, 256, 1024)
	w, err := Open(s, "log", ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("hello stream")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(s, "log", ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 64)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "hello stream" {
		t.Fatalf("got %q", buf[:n])
	}
	// further read at end of stream returns 0 with no error.
	n2, err := r.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n2 != 0 {
		t.Fatalf("expected 0 bytes at EOF, got %d", n2)
	}
}

// TestWriteSpillsAcrossChunks covers spec scenario 4: a write larger than
// a single chunk's capacity splits across sibling chunk records.
func TestWriteSpillsAcrossChunks(t *testing.T) {
	pageSize := uint32(headerSize) + 32
	s := newTestStore(t, pageSize, pageSize*8)
	w, err := Open(s, "log", ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	payload := bytes.Repeat([]byte{'x'}, 40)
	n, err := w.Write(payload)
	if err != nil {
		t.Fatal(err)
	}
	if n != 40 {
		t.Fatalf("got %d bytes written, want 40", n)
	}
	if !s.FindFile(testChunkName("log", 1)) {
		t.Fatal("expected chunk 1 to exist")
	}
	if !s.FindFile(testChunkName("log", 2)) {
		t.Fatal("expected chunk 2 to exist")
	}

	r, err := Open(s, "log", ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 64)
	total := 0
	for {
		n, err := r.Read(got[total:])
		if err != nil {
			t.Fatal(err)
		}
		if n == 0 {
			break
		}
		total += n
	}
	if total != 40 {
		t.Fatalf("got %d bytes read back, want 40", total)
	}
	if !bytes.Equal(got[:40], payload) {
		t.Fatalf("round trip mismatch")
	}
}

// TestAppendResumesAtLastWrittenPosition covers spec scenario 5: opening
// in append mode after a prior partial chunk continues exactly where the
// previous write left off instead of overwriting it.
func TestAppendResumesAtLastWrittenPosition(t *testing.T) {
	pageSize := uint32(headerSize) + 32
	s := newTestStore(t, pageSize, pageSize*8)

	w, err := Open(s, "log", ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(bytes.Repeat([]byte{'a'}, 40)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	a, err := Open(s, "log", ModeAppend)
	if err != nil {
		t.Fatal(err)
	}
	if a.chunk != 2 || a.offset != 8 {
		t.Fatalf("expected resume at chunk 2 offset 8, got chunk %d offset %d", a.chunk, a.offset)
	}
	if _, err := a.Write([]byte("more")); err != nil {
		t.Fatal(err)
	}

	r, err := Open(s, "log", ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 64)
	total := 0
	for {
		n, err := r.Read(got[total:])
		if err != nil {
			t.Fatal(err)
		}
		if n == 0 {
			break
		}
		total += n
	}
	want := append(bytes.Repeat([]byte{'a'}, 40), []byte("more")...)
	if !bytes.Equal(got[:total], want) {
		t.Fatalf("got %q want %q", got[:total], want)
	}
}

func TestReadLineStopsAtNewline(t *testing.T) {
	s := newTestStore(t, 256, 1024)
	w, err := Open(s, "lines", ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("first\nsecond\n")); err != nil {
		t.Fatal(err)
	}

	r, err := Open(s, "lines", ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 64)
	n, err := r.ReadLine(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "first\n" {
		t.Fatalf("got %q", buf[:n])
	}
	n, err = r.ReadLine(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "second\n" {
		t.Fatalf("got %q", buf[:n])
	}
}

func TestEraseRemovesAllChunks(t *testing.T) {
	pageSize := uint32(headerSize) + 32
	s := newTestStore(t, pageSize, pageSize*8)
	w, err := Open(s, "log", ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(bytes.Repeat([]byte{'z'}, 40)); err != nil {
		t.Fatal(err)
	}
	if err := w.Erase(); err != nil {
		t.Fatal(err)
	}
	if s.FindFile(testChunkName("log", 1)) {
		t.Fatal("expected chunk 1 to be gone after erase")
	}
	if s.FindFile(testChunkName("log", 2)) {
		t.Fatal("expected chunk 2 to be gone after erase")
	}
}

// TestAppendResumesAtChunk255WithRoom covers the boundary the chunk-chain
// walk in resumeForAppend must not short-circuit on: chunk 255 existing is
// not by itself grounds for ErrFileTooBig, only chunk 255 being entirely
// full is.
func TestAppendResumesAtChunk255WithRoom(t *testing.T) {
	pageSize := uint32(headerSize) + 8
	s := newTestStore(t, pageSize, pageSize*300)
	chunkCap := pageSize - uint32(headerSize)

	for c := 1; c <= 254; c++ {
		full := bytes.Repeat([]byte{'x'}, int(chunkCap))
		if err := s.WriteFile(testChunkName("s", byte(c)), full, journal.FlagNone, 0, chunkCap); err != nil {
			t.Fatal(err)
		}
	}
	// chunk 255 has room left: only partially filled.
	partial := bytes.Repeat([]byte{'y'}, 3)
	if err := s.WriteFile(testChunkName("s", 255), partial, journal.FlagNone, 0, chunkCap); err != nil {
		t.Fatal(err)
	}

	a, err := Open(s, "s", ModeAppend)
	if err != nil {
		t.Fatal(err)
	}
	if a.chunk != 255 || a.offset != 3 {
		t.Fatalf("expected resume at chunk 255 offset 3, got chunk %d offset %d", a.chunk, a.offset)
	}
	if _, err := a.Write([]byte("z")); err != nil {
		t.Fatal(err)
	}
}

// TestAppendRejectsWhenChunk255IsFull covers the real exhaustion case:
// chunk 255 exists and has no room left, so append has nowhere to go.
func TestAppendRejectsWhenChunk255IsFull(t *testing.T) {
	pageSize := uint32(headerSize) + 8
	s := newTestStore(t, pageSize, pageSize*300)
	chunkCap := pageSize - uint32(headerSize)

	for c := 1; c <= 255; c++ {
		full := bytes.Repeat([]byte{'x'}, int(chunkCap))
		if err := s.WriteFile(testChunkName("s", byte(c)), full, journal.FlagNone, 0, chunkCap); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := Open(s, "s", ModeAppend); err == nil {
		t.Fatal("expected ErrFileTooBig when chunk 255 is entirely full")
	}
}

func TestWrongModeRejected(t *testing.T) {
	s := newTestStore(t, 256, 1024)
	w, err := Open(s, "log", ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Read(make([]byte, 1)); err == nil {
		t.Fatal("expected ErrWrongMode reading a write-mode file")
	}
}

func TestInvalidNameRejected(t *testing.T) {
	s := newTestStore(t, 256, 1024)
	if _, err := Open(s, "waytoolongbasename", ModeWrite); err == nil {
		t.Fatal("expected ErrInvalidName")
	}
}
