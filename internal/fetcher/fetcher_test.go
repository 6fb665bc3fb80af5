package fetcher

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilicrawl/internal/model"
	"bilicrawl/internal/progress"
)

type fakeOpener struct {
	body string
	size int64
	err  error
	wrap func(io.Reader) io.Reader
	urls []string
}

func (o *fakeOpener) Open(_ context.Context, url string) (io.ReadCloser, int64, error) {
	o.urls = append(o.urls, url)
	if o.err != nil {
		return nil, 0, o.err
	}
	var r io.Reader = strings.NewReader(o.body)
	if o.wrap != nil {
		r = o.wrap(r)
	}
	return io.NopCloser(r), o.size, nil
}

type recordingReporter struct {
	progress.Nop
	mu      sync.Mutex
	updates []progress.Update
}

func (r *recordingReporter) Update(u progress.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

type failingReader struct {
	r     io.Reader
	after int
	err   error
	read  int
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.read >= f.after {
		return 0, f.err
	}
	if len(p) > f.after-f.read {
		p = p[:f.after-f.read]
	}
	n, err := f.r.Read(p)
	f.read += n
	return n, err
}

func TestFetch_WritesStreamFile(t *testing.T) {
	dir := t.TempDir()
	op := &fakeOpener{body: "video-bytes", size: 11}
	rep := &recordingReporter{}
	f := New(op, dir, WithReporter(rep))

	art, err := f.Fetch(context.Background(), "https://cdn/v.m4s", "My: Clip", model.KindVideo)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "My  Clip_video.m4s"), art.Path)
	assert.Equal(t, model.KindVideo, art.Kind)
	assert.Equal(t, int64(11), art.Bytes)
	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))

	require.NotEmpty(t, rep.updates)
	last := rep.updates[len(rep.updates)-1]
	assert.Equal(t, progress.StageDownloading, last.Stage)
	assert.InDelta(t, 100.0, last.Percent, 0.001)
	assert.Equal(t, []string{"https://cdn/v.m4s"}, op.urls)
}

func TestFetch_UnknownSize(t *testing.T) {
	op := &fakeOpener{body: "abc", size: -1}
	art, err := New(op, t.TempDir()).Fetch(context.Background(), "u", "t", model.KindAudio)
	require.NoError(t, err)
	assert.Equal(t, int64(3), art.Bytes)
}

func TestFetch_OpenErrorIsTransfer(t *testing.T) {
	dir := t.TempDir()
	op := &fakeOpener{err: errors.New("connection reset")}
	art, err := New(op, dir).Fetch(context.Background(), "u", "t", model.KindAudio)
	require.Error(t, err)
	assert.Equal(t, model.KindTransfer, model.KindOf(err))
	_, statErr := os.Stat(art.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetch_MidStreamErrorLeavesPartialFile(t *testing.T) {
	dir := t.TempDir()
	op := &fakeOpener{body: "0123456789", size: 10, wrap: func(r io.Reader) io.Reader {
		return &failingReader{r: r, after: 4, err: errors.New("boom")}
	}}
	art, err := New(op, dir).Fetch(context.Background(), "u", "t", model.KindVideo)
	require.Error(t, err)
	assert.Equal(t, model.KindTransfer, model.KindOf(err))

	data, readErr := os.ReadFile(art.Path)
	require.NoError(t, readErr)
	assert.Equal(t, "0123", string(data))
}

func TestFetch_ShortBody(t *testing.T) {
	op := &fakeOpener{body: "abc", size: 10}
	_, err := New(op, t.TempDir()).Fetch(context.Background(), "u", "t", model.KindVideo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short body")
}

func TestFetch_CanceledIsInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	op := &fakeOpener{body: "abc", size: 3}
	_, err := New(op, t.TempDir()).Fetch(ctx, "u", "t", model.KindVideo)
	require.Error(t, err)
	assert.True(t, model.IsInterrupt(err))
}
