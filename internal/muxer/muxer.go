// Package muxer remuxes a video and an audio stream into one MP4 with
// ffmpeg, copying both codecs.
package muxer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"bilicrawl/internal/model"
	"bilicrawl/internal/util"
)

// FFmpeg is a crawl.Muxer backed by an ffmpeg binary.
type FFmpeg struct {
	path   string
	runner util.CmdRunner
	log    zerolog.Logger
}

// Option configures FFmpeg.
type Option func(*FFmpeg)

// WithRunner injects a command runner (tests use a fake).
func WithRunner(r util.CmdRunner) Option {
	return func(m *FFmpeg) {
		if r != nil {
			m.runner = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *FFmpeg) { m.log = l }
}

// New returns a muxer running the ffmpeg binary at path.
func New(path string, opts ...Option) *FFmpeg {
	m := &FFmpeg{path: path, runner: util.NewDefaultRunner(), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// partPath is the sibling file ffmpeg writes to before the rename. It keeps
// the .mp4 extension so ffmpeg picks the right container.
func partPath(output string) string {
	dir, base := filepath.Split(output)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, filepath.Ext(base))+".part.mp4")
}

// Args builds the ffmpeg argument list.
func Args(video, audio, output, title string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", video,
		"-i", audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "copy",
	}
	if title != "" {
		args = append(args, "-metadata", "title="+title)
	}
	return append(args, output)
}

// Combine writes output from the two artifacts. Only on success are the
// inputs removed; on failure no output is left behind.
func (m *FFmpeg) Combine(ctx context.Context, video, audio model.DownloadArtifact, output string) error {
	if m.path == "" {
		return model.NewError(model.KindMux, "mux", errors.New("ffmpeg path is required"))
	}
	for _, in := range []string{video.Path, audio.Path} {
		if !util.Exists(in) {
			return model.NewError(model.KindMux, "mux", fmt.Errorf("missing input %s", in))
		}
	}

	tmp := partPath(output)
	spec := util.CmdSpec{
		Path: m.path,
		Args: Args(video.Path, audio.Path, tmp, video.Title),
	}
	m.log.Debug().Str("cmd", spec.String()).Msg("running ffmpeg")

	res, err := m.runner.Run(ctx, spec)
	if err != nil {
		_ = util.RemoveIfExists(tmp)
		if stderr := strings.TrimSpace(string(res.Stderr)); stderr != "" {
			err = fmt.Errorf("%w: %s", err, lastLine(stderr))
		}
		return model.NewError(model.KindMux, "mux "+filepath.Base(output), err)
	}
	if err := os.Rename(tmp, output); err != nil {
		_ = util.RemoveIfExists(tmp)
		return model.NewError(model.KindMux, "mux "+filepath.Base(output), err)
	}

	for _, in := range []string{video.Path, audio.Path} {
		if err := util.RemoveIfExists(in); err != nil {
			m.log.Warn().Err(err).Str("path", in).Msg("could not remove stream file")
		}
	}
	m.log.Info().Str("output", output).Msg("video and audio have been mixed")
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
