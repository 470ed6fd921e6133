// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Package jsonfile is a thin encoding/json convenience layer over
// journal.Store, giving the "readJSON" / "writeJSON" read/write shapes
// the original firmware exposes (spec.md §8's round-trip property:
// readJSON(name) == parse(read(name))) a concrete implementation, while
// keeping journal and streamfile themselves agnostic of any particular
// encoding.
package jsonfile

import (
	"encoding/json"

	"flashjournal/journal"
)

// WriteJSON marshals v and stores it under name via store.WriteFile,
// using a full (non-preallocated) write.
func WriteJSON(store *journal.Store, name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.WriteFile(name, data, journal.FlagNone, 0, 0)
}

// ReadJSON reads the named record and unmarshals it into v.
func ReadJSON(store *journal.Store, name string, v interface{}) error {
	data, err := store.ReadFile(name)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
