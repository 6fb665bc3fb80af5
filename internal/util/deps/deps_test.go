package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bilicrawl/internal/util"
)

func TestFindFFmpegCustomFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindFFmpeg(p)
	if err != nil {
		t.Fatalf("FindFFmpeg: %v", err)
	}
	if got != p {
		t.Errorf("got %q, want %q", got, p)
	}
}

func TestFindFFmpegMissing(t *testing.T) {
	_, err := FindFFmpeg(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Fatalf("err = %v, want ErrFFmpegNotFound", err)
	}
}

type fakeRunner struct {
	spec util.CmdSpec
	out  string
	err  error
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.spec = spec
	return util.CmdResult{Stdout: []byte(f.out)}, f.err
}

func TestFFmpegVersion(t *testing.T) {
	r := &fakeRunner{out: "ffmpeg version 6.1 Copyright (c) 2000-2023\nbuilt with gcc\n"}
	got, err := FFmpegVersion(context.Background(), r, "/bin/ffmpeg")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ffmpeg version 6.1 Copyright (c) 2000-2023" {
		t.Errorf("version = %q", got)
	}
	if len(r.spec.Args) != 1 || r.spec.Args[0] != "-version" {
		t.Errorf("args = %v", r.spec.Args)
	}

	r = &fakeRunner{err: errors.New("boom")}
	if _, err := FFmpegVersion(context.Background(), r, "/bin/ffmpeg"); err == nil {
		t.Error("expected error")
	}
}
