// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"flashjournal/streamfile"
)

func newStreamWriteCommand() *cobra.Command {
	var appendMode bool
	cmd := &cobra.Command{
		Use:   "stream-write NAME FILE",
		Short: "Write FILE's contents into a chunked stream, truncating unless --append is set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			ls, err := openStore()
			if err != nil {
				return err
			}
			ls.mu.Lock()
			defer ls.mu.Unlock()

			mode := streamfile.ModeWrite
			if appendMode {
				mode = streamfile.ModeAppend
			}
			f, err := streamfile.Open(ls.store, name, mode)
			if err != nil {
				return err
			}
			if _, err := f.Write(data); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			if err := ls.persist(); err != nil {
				return err
			}
			log.Info().Str("name", name).Int("bytes", len(data)).Bool("append", appendMode).Msg("wrote stream")
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendMode, "append", false, "resume the stream instead of truncating it")
	return cmd
}

func newStreamCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stream-cat NAME",
		Short: "Print a chunked stream's full contents to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ls, err := openStore()
			if err != nil {
				return err
			}
			ls.mu.RLock()
			defer ls.mu.RUnlock()

			f, err := streamfile.Open(ls.store, name, streamfile.ModeRead)
			if err != nil {
				return err
			}
			defer f.Close()

			r := streamfile.NewReader(f)
			_, err = io.Copy(os.Stdout, r)
			return err
		},
	}
}
