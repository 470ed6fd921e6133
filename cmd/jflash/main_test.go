// Copyright 2019 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func init() {
	log = zerolog.New(io.Discard)
}

// runCLI executes one invocation of the jflash root command with args,
// capturing whatever it wrote to stdout (list/read/free all print there).
func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w

	root := newRootCommand()
	root.SetArgs(args)
	execErr := root.Execute()

	os.Stdout = orig
	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	r.Close()

	if execErr != nil {
		t.Fatalf("jflash %v failed: %v", args, execErr)
	}
	return buf.String()
}

// TestCLIEndToEnd drives write, read, compact, stream-write and
// stream-cat against a temp-dir-backed region, exercising cmd/jflash the
// way an operator actually would from a shell.
func TestCLIEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "region.bin")
	infoPath := filepath.Join(dir, "region.info")
	flags := []string{"--data", dataPath, "--info", infoPath}

	srcPath := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(srcPath, []byte("hello from jflash"), 0o644); err != nil {
		t.Fatal(err)
	}

	writeArgs := append([]string{"write", "greeting", srcPath}, flags...)
	runCLI(t, writeArgs...)

	readArgs := append([]string{"read", "greeting"}, flags...)
	got := runCLI(t, readArgs...)
	if got != "hello from jflash" {
		t.Fatalf("read got %q", got)
	}

	listArgs := append([]string{"list"}, flags...)
	listed := runCLI(t, listArgs...)
	if listed != "greeting\n" {
		t.Fatalf("list got %q", listed)
	}

	compactArgs := append([]string{"compact"}, flags...)
	runCLI(t, compactArgs...)

	// the record must still be there and correct after compaction.
	got = runCLI(t, readArgs...)
	if got != "hello from jflash" {
		t.Fatalf("read after compact got %q", got)
	}

	streamSrcPath := filepath.Join(dir, "stream-src.txt")
	streamContent := bytes.Repeat([]byte("stream chunk content "), 20)
	if err := os.WriteFile(streamSrcPath, streamContent, 0o644); err != nil {
		t.Fatal(err)
	}
	streamWriteArgs := append([]string{"stream-write", "biglog", streamSrcPath}, flags...)
	runCLI(t, streamWriteArgs...)

	streamCatArgs := append([]string{"stream-cat", "biglog"}, flags...)
	streamed := runCLI(t, streamCatArgs...)
	if streamed != string(streamContent) {
		t.Fatalf("stream-cat round trip mismatch: got %d bytes, want %d", len(streamed), len(streamContent))
	}

	appendSrcPath := filepath.Join(dir, "append-src.txt")
	if err := os.WriteFile(appendSrcPath, []byte(" and more"), 0o644); err != nil {
		t.Fatal(err)
	}
	appendArgs := append([]string{"stream-write", "biglog", appendSrcPath, "--append"}, flags...)
	runCLI(t, appendArgs...)

	streamed = runCLI(t, streamCatArgs...)
	want := string(streamContent) + " and more"
	if streamed != want {
		t.Fatalf("stream-cat after append mismatch: got %q, want %q", streamed, want)
	}

	eraseArgs := append([]string{"erase", "greeting"}, flags...)
	runCLI(t, eraseArgs...)
	if _, err := os.Stat(dataPath); err != nil {
		t.Fatal(err)
	}

	freeArgs := append([]string{"free"}, flags...)
	free := runCLI(t, freeArgs...)
	if free == "" {
		t.Fatal("expected free to print a byte count")
	}
}
