// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"flashjournal/journal"
)

func newWriteCommand() *cobra.Command {
	var crc bool
	cmd := &cobra.Command{
		Use:   "write NAME FILE",
		Short: "Write FILE's contents into the named record, superseding any existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			var flags journal.Flag
			if crc {
				flags |= journal.FlagCRC32
			}
			if err := s.WriteFile(name, data, flags, 0, 0); err != nil {
				return err
			}
			log.Info().Str("name", name).Int("bytes", len(data)).Msg("wrote record")
			return nil
		},
	}
	cmd.Flags().BoolVar(&crc, "crc", false, "store a trailing CRC32 and verify it on read")
	return cmd
}
