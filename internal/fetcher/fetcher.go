// Package fetcher streams one elementary stream from a URL to the run
// directory.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"bilicrawl/internal/model"
	"bilicrawl/internal/progress"
	"bilicrawl/internal/util/media"
)

// ChunkSize is the read size used while streaming a body to disk.
const ChunkSize = 1 << 20

// reportEvery throttles byte progress updates.
const reportEvery = 250 * time.Millisecond

// Opener opens a streaming GET. size is -1 when unknown.
type Opener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, int64, error)
}

// Fetcher writes streams to <dir>/<sanitized title>_<kind>.m4s.
type Fetcher struct {
	open     Opener
	dir      string
	reporter progress.Reporter
	log      zerolog.Logger
	now      func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithReporter receives byte progress.
func WithReporter(r progress.Reporter) Option {
	return func(f *Fetcher) {
		if r != nil {
			f.reporter = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

// New builds a Fetcher writing into dir.
func New(open Opener, dir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		open:     open,
		dir:      dir,
		reporter: progress.Nop{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url to the stream path for (title, kind), replacing any
// file already there. On failure the partial file is left in place and the
// error is a transfer error (or an interrupt).
func (f *Fetcher) Fetch(ctx context.Context, url, title string, kind model.StreamKind) (model.DownloadArtifact, error) {
	op := fmt.Sprintf("fetch %s stream", kind)
	path := media.StreamPath(f.dir, title, kind)
	art := model.DownloadArtifact{Path: path, Kind: kind, Title: title}

	body, size, err := f.open.Open(ctx, url)
	if err != nil {
		return art, model.NewError(model.KindTransfer, op, err)
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return art, model.NewError(model.KindTransfer, op, err)
	}

	start := f.now()
	written, err := f.copy(ctx, out, body, size, title, kind, start)
	closeErr := out.Close()
	art.Bytes = written
	if err == nil {
		err = closeErr
	}
	if err == nil && size >= 0 && written != size {
		err = fmt.Errorf("short body: got %d of %d bytes", written, size)
	}
	if err != nil {
		return art, model.NewError(model.KindTransfer, op, err)
	}

	f.report(title, kind, written, written, start)
	f.log.Debug().
		Str("kind", string(kind)).
		Str("path", path).
		Str("size", humanize.IBytes(uint64(written))).
		Dur("took", f.now().Sub(start)).
		Msg("stream downloaded")
	return art, nil
}

func (f *Fetcher) copy(ctx context.Context, dst io.Writer, src io.Reader, size int64, title string, kind model.StreamKind, start time.Time) (int64, error) {
	buf := make([]byte, ChunkSize)
	var (
		written    int64
		lastReport time.Time
	)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			if now := f.now(); now.Sub(lastReport) >= reportEvery {
				lastReport = now
				f.report(title, kind, written, size, start)
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			if ctx.Err() != nil {
				return written, ctx.Err()
			}
			return written, rerr
		}
	}
}

func (f *Fetcher) report(title string, kind model.StreamKind, written, size int64, start time.Time) {
	pct := -1.0
	if size > 0 {
		pct = float64(written) / float64(size) * 100
	}
	var speed string
	if elapsed := f.now().Sub(start).Seconds(); elapsed > 0 {
		speed = humanize.IBytes(uint64(float64(written)/elapsed)) + "/s"
	}
	f.reporter.Update(progress.Update{
		Title:   title,
		Stage:   progress.StageDownloading,
		Kind:    kind,
		Percent: pct,
		Bytes:   written,
		Speed:   speed,
		Message: "Downloading " + string(kind),
	})
}
