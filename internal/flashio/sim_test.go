// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package flashio

import "testing"

func TestSimReadWrite(t *testing.T) {
	s := NewSim(0, 256, 64, 0xFF)

	if err := s.Write(4, []byte{0x41, 0x42}); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 2)
	if err := s.Read(got, 4); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0x41 || got[1] != 0x42 {
		t.Fatalf("got %x want 4142", got)
	}
}

func TestSimWriteRejectsSettingBits(t *testing.T) {
	s := NewSim(0, 64, 64, 0xFF)
	if err := s.Write(0, []byte{0x41}); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(0, []byte{0xFF}); err == nil {
		t.Fatal("expected ErrNotErased when setting an already-cleared bit")
	}
	// clearing further bits of an already-written byte is fine
	if err := s.Write(0, []byte{0x01}); err != nil {
		t.Fatalf("clearing bits should succeed: %v", err)
	}
}

func TestSimErasePageResetsToErasedByte(t *testing.T) {
	s := NewSim(0, 128, 64, 0xFF)
	if err := s.Write(0, []byte{0x00, 0x00, 0x00}); err != nil {
		t.Fatal(err)
	}
	if err := s.ErasePage(0); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 3)
	if err := s.Read(got, 0); err != nil {
		t.Fatal(err)
	}
	for _, b := range got {
		if b != 0xFF {
			t.Fatalf("expected erased byte after ErasePage, got %x", got)
		}
	}
}

func TestSimOutOfRange(t *testing.T) {
	s := NewSim(0, 64, 64, 0xFF)
	if err := s.Read(make([]byte, 1), 64); err == nil {
		t.Fatal("expected out of range error")
	}
	if err := s.Write(60, []byte{0, 0, 0, 0, 0}); err == nil {
		t.Fatal("expected out of range error")
	}
}
