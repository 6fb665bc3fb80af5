package crawl

import (
	"context"

	"bilicrawl/internal/model"
)

// Resolver finds stream endpoints for one post at the run's quality.
//
// Resolve is the primary lookup: at most one URL per stream kind, the first
// matching rendition in platform order. An empty slice for a kind means no
// rendition matched, which is not an error at this level.
//
// ResolveAll is the candidate lookup used by the retry path: every mirror
// URL of every matching rendition, in platform order, without duplicates.
type Resolver interface {
	Resolve(ctx context.Context, id string) (model.StreamEndpointSet, error)
	ResolveAll(ctx context.Context, id string) (model.StreamEndpointSet, error)
}

// Source is one content variant (creator, single post, series, saved list):
// how to enumerate its posts and how to resolve each one.
type Source interface {
	// Name is used in log lines.
	Name() string
	// Enumerate returns the ordered posts of the source. A listing failure
	// is returned as a KindEnumeration error together with whatever was
	// collected before it; the run goes on with that partial list. Any
	// other error (usage, interrupt) stops the run.
	Enumerate(ctx context.Context) ([]model.Post, error)
	// Resolver binds the quality labels to the source's token form.
	Resolver(q model.QualitySelector) Resolver
	// ListFile names the file the enumerated list is persisted to, or "".
	ListFile() string
}

// Fetcher downloads one stream to the run directory.
type Fetcher interface {
	Fetch(ctx context.Context, url, title string, kind model.StreamKind) (model.DownloadArtifact, error)
}

// Muxer combines a video and an audio artifact into output. On success it
// removes both inputs; on failure it leaves every path as it was.
type Muxer interface {
	Combine(ctx context.Context, video, audio model.DownloadArtifact, output string) error
}
