// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the names of all live records in the region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			for _, name := range s.ListFiles() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newFreeCommand() *cobra.Command {
	var total bool
	cmd := &cobra.Command{
		Use:   "free",
		Short: "Print the largest record that can be written without compacting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			// the bare command mirrors the externally-exposed getFree
			// binding, which always asks for the conservative bound; --total
			// reports the non-conservative sum across every page instead.
			fmt.Println(s.GetFreeSpace(!total))
			return nil
		},
	}
	cmd.Flags().BoolVar(&total, "total", false, "report total free bytes across all pages instead of the largest single writable record")
	return cmd
}

func newCompactCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Stage live records to RAM, erase the region, and replay them back to back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			before := s.GetFreeSpace(false)
			if err := s.Compact(); err != nil {
				return err
			}
			after := s.GetFreeSpace(false)
			log.Info().Uint32("free_before", before).Uint32("free_after", after).Msg("compacted region")
			return nil
		},
	}
}
