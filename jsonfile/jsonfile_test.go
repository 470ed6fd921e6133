// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package jsonfile

import (
	"testing"

	"flashjournal/internal/flashio"
	"flashjournal/journal"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteReadJSONRoundTrip(t *testing.T) {
	sim := flashio.NewSim(0, 1024, 256, 0xFF)
	s, err := journal.Open(sim, journal.Config{BaseAddr: 0, RegionSize: 1024, PageSize: 256, ErasedByte: 0xFF})
	if err != nil {
		t.Fatal(err)
	}

	want := record{Name: "widget", Count: 3}
	if err := WriteJSON(s, "rec", want); err != nil {
		t.Fatal(err)
	}

	var got record
	if err := ReadJSON(s, "rec", &got); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}
