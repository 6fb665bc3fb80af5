// Package media derives on-disk names for stream artifacts and outputs.
// Every name goes through util.SanitizeFilename so that the fetcher, the
// retry check and the muxer agree on the same paths.
package media

import (
	"path/filepath"

	"bilicrawl/internal/model"
	"bilicrawl/internal/util"
)

// StreamFileName is "<title>_<kind>.m4s" with the title sanitized.
func StreamFileName(title string, kind model.StreamKind) string {
	return util.SanitizeFilename(title) + "_" + string(kind) + ".m4s"
}

// OutputFileName is "<title>.mp4" with the title sanitized.
func OutputFileName(title string) string {
	return util.SanitizeFilename(title) + ".mp4"
}

// StreamPath joins dir with StreamFileName.
func StreamPath(dir, title string, kind model.StreamKind) string {
	return filepath.Join(dir, StreamFileName(title, kind))
}

// OutputPath joins dir with OutputFileName.
func OutputPath(dir, title string) string {
	return filepath.Join(dir, OutputFileName(title))
}
