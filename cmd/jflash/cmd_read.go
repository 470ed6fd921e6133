// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read NAME",
		Short: "Print the named record's contents to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			s, err := openStore()
			if err != nil {
				return err
			}
			r, err := s.OpenReader(name)
			if err != nil {
				return err
			}
			_, err = io.Copy(os.Stdout, r)
			return err
		},
	}
}

func newEraseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "erase NAME",
		Short: "Erase the named record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			s, err := openStore()
			if err != nil {
				return err
			}
			if err := s.EraseFile(name); err != nil {
				return err
			}
			log.Info().Str("name", name).Msg("erased record")
			return nil
		},
	}
}
