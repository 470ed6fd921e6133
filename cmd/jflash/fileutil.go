// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"
)

// fileExists checks if a file exists on disk. Adapted from the teacher's
// utils.go FileExists.
func fileExists(filename string) (exists bool, err error) {
	_, err = os.Stat(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
