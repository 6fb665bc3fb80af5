package model

// StreamKind identifies one of the two elementary streams of a post.
type StreamKind string

const (
	KindVideo StreamKind = "video"
	KindAudio StreamKind = "audio"
)

// QualitySelector is the pair of human quality labels chosen once per run,
// e.g. ("720p", "132k").
type QualitySelector struct {
	Video string
	Audio string
}

// StreamEndpointSet is what a metadata resolver knows about one post.
// For a primary lookup each slice holds at most one URL; for a candidate
// lookup it holds every mirror whose rendition matched the requested token.
// Slices never contain empty entries.
type StreamEndpointSet struct {
	Title string
	Video []string
	Audio []string
}

// URLs returns the endpoints for the given kind.
func (s StreamEndpointSet) URLs(kind StreamKind) []string {
	if kind == KindAudio {
		return s.Audio
	}
	return s.Video
}

// DownloadArtifact is a stream file on local disk waiting to be muxed.
type DownloadArtifact struct {
	Path  string
	Kind  StreamKind
	Title string
	Bytes int64
}
