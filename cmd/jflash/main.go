// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

// Command jflash is a CLI front end over journal.Store and
// streamfile.File, driven against a file-backed flashio.Sim region. It
// replaces the teacher's cmd/tester (a hand-rolled flag switch over a
// FlatFileEmulator/real-file pair) with cobra subcommands, since jflash
// has several real verbs (write, read, list, erase, compact, free,
// stream-write, stream-cat) where
// the teacher's tester only ever ran one fixed load-test routine.
package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log zerolog.Logger

	dataPath string
	infoPath string
)

func main() {
	sessionID := uuid.New()
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Str("session", sessionID.String()).
		Logger()

	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jflash",
		Short: "Inspect and drive a simulated flash journal region",
	}

	cmd.PersistentFlags().String("data", "jflash.bin", "path to the simulated region's backing file")
	cmd.PersistentFlags().String("info", "jflash.info", "path to the region geometry sidecar file")
	viper.BindPFlag("data", cmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag("info", cmd.PersistentFlags().Lookup("info"))
	viper.SetEnvPrefix("jflash")
	viper.AutomaticEnv()

	cobra.OnInitialize(func() {
		dataPath = viper.GetString("data")
		infoPath = viper.GetString("info")
	})

	cmd.AddCommand(
		newWriteCommand(),
		newReadCommand(),
		newListCommand(),
		newEraseCommand(),
		newCompactCommand(),
		newFreeCommand(),
		newStreamWriteCommand(),
		newStreamCatCommand(),
	)
	return cmd
}

func openStore() (*lockedStore, error) {
	return openLockedStore(dataPath, infoPath)
}
