package muxer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilicrawl/internal/model"
	"bilicrawl/internal/util"
)

// fakeRunner writes the last argument (the output file) unless fail is set.
type fakeRunner struct {
	calls []util.CmdSpec
	fail  bool
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.calls = append(f.calls, spec)
	out := spec.Args[len(spec.Args)-1]
	if f.fail {
		_ = os.WriteFile(out, []byte("partial"), 0o644)
		return util.CmdResult{Code: 1, Stderr: []byte("warning\nInvalid data found")}, errors.New("command failed (exit 1)")
	}
	return util.CmdResult{}, os.WriteFile(out, []byte("mp4"), 0o644)
}

func artifacts(t *testing.T, dir string) (model.DownloadArtifact, model.DownloadArtifact) {
	t.Helper()
	v := model.DownloadArtifact{Path: filepath.Join(dir, "clip_video.m4s"), Kind: model.KindVideo, Title: "clip"}
	a := model.DownloadArtifact{Path: filepath.Join(dir, "clip_audio.m4s"), Kind: model.KindAudio, Title: "clip"}
	require.NoError(t, os.WriteFile(v.Path, []byte("v"), 0o644))
	require.NoError(t, os.WriteFile(a.Path, []byte("a"), 0o644))
	return v, a
}

func TestArgs(t *testing.T) {
	got := Args("v.m4s", "a.m4s", "out.mp4", "Title")
	want := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", "v.m4s", "-i", "a.m4s",
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "copy", "-c:a", "copy",
		"-metadata", "title=Title",
		"out.mp4",
	}
	assert.Equal(t, want, got)
	assert.NotContains(t, Args("v", "a", "o", ""), "-metadata")
}

func TestCombine_SuccessRemovesInputs(t *testing.T) {
	dir := t.TempDir()
	v, a := artifacts(t, dir)
	out := filepath.Join(dir, "clip.mp4")
	fr := &fakeRunner{}

	err := New("/usr/bin/ffmpeg", WithRunner(fr)).Combine(context.Background(), v, a, out)
	require.NoError(t, err)

	assert.True(t, util.Exists(out))
	assert.False(t, util.Exists(v.Path))
	assert.False(t, util.Exists(a.Path))
	assert.False(t, util.Exists(partPath(out)))
	require.Len(t, fr.calls, 1)
	assert.Equal(t, "/usr/bin/ffmpeg", fr.calls[0].Path)
}

func TestCombine_FailureLeavesPathsUntouched(t *testing.T) {
	dir := t.TempDir()
	v, a := artifacts(t, dir)
	out := filepath.Join(dir, "clip.mp4")

	err := New("ffmpeg", WithRunner(&fakeRunner{fail: true})).Combine(context.Background(), v, a, out)
	require.Error(t, err)
	assert.Equal(t, model.KindMux, model.KindOf(err))
	assert.Contains(t, err.Error(), "Invalid data found")

	assert.True(t, util.Exists(v.Path))
	assert.True(t, util.Exists(a.Path))
	assert.False(t, util.Exists(out))
	assert.False(t, util.Exists(partPath(out)))
}

func TestCombine_MissingInput(t *testing.T) {
	dir := t.TempDir()
	v, a := artifacts(t, dir)
	require.NoError(t, os.Remove(a.Path))
	fr := &fakeRunner{}

	err := New("ffmpeg", WithRunner(fr)).Combine(context.Background(), v, a, filepath.Join(dir, "clip.mp4"))
	require.Error(t, err)
	assert.Empty(t, fr.calls)
	assert.True(t, util.Exists(v.Path))
}

func TestPartPath(t *testing.T) {
	assert.Equal(t, filepath.Join("d", ".clip.part.mp4"), partPath(filepath.Join("d", "clip.mp4")))
}
