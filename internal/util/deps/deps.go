package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"bilicrawl/internal/util"
)

// ErrFFmpegNotFound is returned when no usable ffmpeg binary exists.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// FindFFmpeg resolves the ffmpeg binary. An explicit path wins and may be
// either a file or a name looked up in PATH.
func FindFFmpeg(customPath string) (string, error) {
	name := "ffmpeg"
	if customPath != "" {
		if st, err := os.Stat(customPath); err == nil && !st.IsDir() {
			return customPath, nil
		}
		name = customPath
	}
	p, err := exec.LookPath(name)
	if err != nil {
		if customPath != "" {
			return "", fmt.Errorf("%w at %q", ErrFFmpegNotFound, customPath)
		}
		return "", fmt.Errorf("%w in PATH, please install ffmpeg", ErrFFmpegNotFound)
	}
	return p, nil
}

// FFmpegVersion runs `ffmpeg -version` and returns its first output line.
func FFmpegVersion(ctx context.Context, runner util.CmdRunner, path string) (string, error) {
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	res, err := runner.Run(ctx, util.CmdSpec{Path: path, Args: []string{"-version"}})
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(res.Stdout)), "\n")
	return strings.TrimSpace(line), nil
}
