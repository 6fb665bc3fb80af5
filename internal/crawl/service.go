// Package crawl walks a list of posts through resolve, download and mux,
// falling back to every mirror URL when the primary attempt fails.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bilicrawl/internal/model"
	"bilicrawl/internal/progress"
	"bilicrawl/internal/util"
	"bilicrawl/internal/util/media"
)

// RemainingListFile receives the unprocessed posts of an interrupted run.
const RemainingListFile = "remaining_list.json"

// ErrNoMatchingStream means a lookup found no rendition at the requested
// quality for at least one stream kind.
var ErrNoMatchingStream = errors.New("no stream matches the requested quality")

// ErrCandidatesExhausted means every candidate URL of a stream kind failed.
var ErrCandidatesExhausted = errors.New("all candidate urls failed")

// Service runs one crawl.
type Service struct {
	source   Source
	fetcher  Fetcher
	muxer    Muxer
	reporter progress.Reporter
	log      zerolog.Logger
	dir      string
	quality  model.QualitySelector
	begin    int
	runID    string
}

// Option configures a Service.
type Option func(*Service)

// WithSource sets the content source.
func WithSource(src Source) Option {
	return func(s *Service) { s.source = src }
}

// WithFetcher sets the stream fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithMuxer sets the muxer.
func WithMuxer(m Muxer) Option {
	return func(s *Service) { s.muxer = m }
}

// WithReporter attaches a progress reporter (used by the TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		if rp != nil {
			s.reporter = rp
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithDir sets the run directory for lists and media.
func WithDir(dir string) Option {
	return func(s *Service) { s.dir = dir }
}

// WithQuality sets the quality labels for the whole run.
func WithQuality(q model.QualitySelector) Option {
	return func(s *Service) { s.quality = q }
}

// WithBegin skips the first n posts of the list. Negative values start at
// the first post.
func WithBegin(n int) Option {
	return func(s *Service) { s.begin = max(n, 0) }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *Service) { s.runID = id }
}

// NewService constructs a Service. Source, fetcher and muxer are required
// for Run; Plan needs only the source.
func NewService(opts ...Option) *Service {
	s := &Service{
		reporter: progress.Nop{},
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.log = s.log.With().Str("run", s.runID).Logger()
	return s
}

// RunID identifies this run in logs.
func (s *Service) RunID() string { return s.runID }

// Run enumerates the source, persists the list and crawls it. The error is
// non-nil only when the run could not start (usage errors); per-post
// failures, listing failures and interrupts are carried by the report.
func (s *Service) Run(ctx context.Context) (model.CrawlReport, error) {
	if s.source == nil || s.fetcher == nil || s.muxer == nil {
		return s.emptyReport(), errors.New("crawl: source, fetcher and muxer are required")
	}

	s.log.Info().Str("source", s.source.Name()).Msg("collecting posts")
	posts, err := s.source.Enumerate(ctx)
	var listingErr error
	if err != nil && model.KindOf(err) == model.KindEnumeration {
		s.log.Warn().Err(err).Int("collected", len(posts)).Msg("listing incomplete, crawling what was collected")
		listingErr, err = err, nil
	}
	if err != nil {
		if model.IsInterrupt(err) {
			s.log.Error().Msg("interrupt detected while collecting posts")
			report := s.emptyReport()
			report.Interrupted = true
			s.reporter.Finished(report)
			return report, nil
		}
		return s.emptyReport(), err
	}

	if name := s.source.ListFile(); name != "" && len(posts) > 0 && s.dir != "" {
		path := filepath.Join(s.dir, name)
		if err := util.WriteJSONFile(path, posts); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("could not save post list")
		} else {
			s.log.Debug().Str("path", path).Int("posts", len(posts)).Msg("post list saved")
		}
	}

	return s.crawl(ctx, posts, listingErr), nil
}

func (s *Service) emptyReport() model.CrawlReport {
	return model.CrawlReport{RunID: s.runID, Entries: []model.ReportEntry{}}
}

// Crawl processes posts[begin:] in order. Every post reaches Done or Failed
// unless the run is interrupted, in which case the post in flight and the
// rest are returned in Remaining and saved to RemainingListFile.
func (s *Service) Crawl(ctx context.Context, posts []model.Post) model.CrawlReport {
	return s.crawl(ctx, posts, nil)
}

func (s *Service) crawl(ctx context.Context, posts []model.Post, listingErr error) model.CrawlReport {
	report := s.emptyReport()
	report.Total = len(posts)
	report.ListingErr = listingErr
	defer func() { s.reporter.Finished(report) }()

	if len(posts) == 0 {
		s.log.Warn().Msg("there is no video to crawl")
		return report
	}
	if s.begin >= len(posts) {
		s.log.Warn().Int("begin", s.begin).Int("total", len(posts)).Msg("begin index is past the end of the list")
		return report
	}

	resolver := s.source.Resolver(s.quality)
	total := len(posts)
	s.log.Info().Int("total", total).Int("begin", s.begin).Msg("start crawling")

	for i := s.begin; i < total; i++ {
		post := posts[i]
		if ctx.Err() != nil {
			s.interrupted(&report, posts[i:])
			break
		}
		entry, err := s.crawlPost(ctx, resolver, i+1, total, post)
		if model.IsInterrupt(err) {
			s.interrupted(&report, posts[i:])
			break
		}
		report.Entries = append(report.Entries, entry)
		s.reporter.Result(progress.Result{
			Index:    entry.Index,
			PostID:   post.ID,
			Title:    entry.Post.Title,
			Outcome:  entry.Outcome,
			Output:   entry.Output,
			Bytes:    entry.Bytes,
			Duration: entry.Duration,
			Err:      entry.Err,
		})
	}

	s.summarize(report)
	return report
}

func (s *Service) interrupted(report *model.CrawlReport, rest []model.Post) {
	report.Interrupted = true
	report.Remaining = append([]model.Post(nil), rest...)
	s.log.Error().Int("remaining", len(rest)).Msg("interrupt detected, stopping")
	if s.dir == "" {
		return
	}
	path := filepath.Join(s.dir, RemainingListFile)
	if err := util.WriteJSONFile(path, report.Remaining); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("could not save remaining list")
		return
	}
	s.log.Info().Str("path", path).Msg("remaining posts saved, resume with --from-list")
}

func (s *Service) summarize(report model.CrawlReport) {
	failed := report.Failed()
	done := len(report.Entries)
	if len(failed) > 0 {
		s.log.Warn().Msgf("Failed to crawl %d/%d video(s)", len(failed), report.Total)
		s.log.Warn().Msgf("Unsuccessful list: %s", formatIndices(failed))
		return
	}
	if report.Interrupted {
		s.log.Info().Msgf("%d/%d video(s) downloaded before the interrupt", done, report.Total)
		return
	}
	s.log.Info().Msgf("All %d video(s) have been downloaded!", done)
}

// formatIndices renders indices as "[0, 3, 7]".
func formatIndices(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// crawlPost runs the primary attempt and, if it fails for any reason other
// than an interrupt, the candidate retry path. Streams the primary attempt
// fetched successfully are passed on; the retry path fetches only the kinds
// still missing.
func (s *Service) crawlPost(ctx context.Context, r Resolver, index, total int, post model.Post) (model.ReportEntry, error) {
	start := time.Now()
	entry := model.ReportEntry{Index: index, Post: post}
	log := s.log.With().Int("index", index).Int("total", total).Str("id", post.ID).Logger()

	s.update(index, total, post, progress.StagePending, "Resolving")

	have := streams{}
	out, bytes, err := s.primary(ctx, r, index, total, &entry, have, log)
	if err != nil {
		if model.IsInterrupt(err) {
			return entry, err
		}
		if model.KindOf(err) == model.KindMux {
			// refetch both streams after a mux failure
			have = streams{}
		}
		log.Warn().Err(err).Str("title", entry.Post.Title).Msg("primary attempt failed, retrying with all candidate urls")
		entry.Retried = true
		s.update(index, total, entry.Post, progress.StageRetrying, err.Error())

		out, bytes, err = s.retry(ctx, r, index, total, &entry, have, log)
		if model.IsInterrupt(err) {
			return entry, err
		}
	}

	entry.Duration = time.Since(start)
	if err != nil {
		entry.Outcome = model.OutcomeFailure
		entry.Err = err
		log.Warn().Err(err).Str("title", entry.Post.Title).Msgf("Failed to crawl %d/%d", index, total)
		s.update(index, total, entry.Post, progress.StageFailed, err.Error())
		return entry, nil
	}

	entry.Outcome = model.OutcomeSuccess
	entry.Output = out
	entry.Bytes = bytes
	log.Info().
		Str("title", entry.Post.Title).
		Str("output", out).
		Str("size", humanize.IBytes(uint64(bytes))).
		Dur("took", entry.Duration).
		Msgf("Finished crawling %d/%d", index, total)
	s.update(index, total, entry.Post, progress.StageDone, "Saved "+filepath.Base(out))
	return entry, nil
}

// streams holds the artifacts of one post that were fetched without error.
type streams map[model.StreamKind]model.DownloadArtifact

// usable returns the artifact of kind if its file is still on disk.
func (st streams) usable(kind model.StreamKind) (model.DownloadArtifact, bool) {
	art, ok := st[kind]
	if !ok || !util.Exists(art.Path) {
		return model.DownloadArtifact{}, false
	}
	return art, true
}

func (s *Service) primary(ctx context.Context, r Resolver, index, total int, entry *model.ReportEntry, have streams, log zerolog.Logger) (string, int64, error) {
	set, err := r.Resolve(ctx, entry.Post.ID)
	s.learnTitle(entry, set)
	if err != nil {
		return "", 0, err
	}
	if len(set.Video) == 0 || len(set.Audio) == 0 {
		return "", 0, model.NewError(model.KindResolution, "resolve "+entry.Post.ID, ErrNoMatchingStream)
	}
	log.Info().Str("title", entry.Post.Title).Msgf("Crawling %d/%d", index, total)
	s.update(index, total, entry.Post, progress.StageResolved, "Resolved")

	for _, kind := range streamKinds {
		s.update(index, total, entry.Post, progress.StageDownloading, "Downloading "+string(kind))
		art, err := s.fetcher.Fetch(ctx, set.URLs(kind)[0], entry.Post.Title, kind)
		if err != nil {
			return "", 0, err
		}
		have[kind] = art
	}
	return s.mux(ctx, index, total, entry, have[model.KindVideo], have[model.KindAudio])
}

var streamKinds = []model.StreamKind{model.KindVideo, model.KindAudio}

// retry walks the candidates of every stream kind that is not already on
// disk, then muxes only if both kinds ended up with a file.
func (s *Service) retry(ctx context.Context, r Resolver, index, total int, entry *model.ReportEntry, have streams, log zerolog.Logger) (string, int64, error) {
	set, err := r.ResolveAll(ctx, entry.Post.ID)
	s.learnTitle(entry, set)
	if err != nil {
		return "", 0, err
	}

	var missing []string
	for _, kind := range streamKinds {
		if art, ok := have.usable(kind); ok {
			log.Debug().Str("kind", string(kind)).Str("path", art.Path).Msg("keeping stream from primary attempt")
			continue
		}
		delete(have, kind)
		art, err := s.firstWorking(ctx, set.URLs(kind), entry.Post.Title, kind, log)
		if err != nil {
			if model.IsInterrupt(err) {
				return "", 0, err
			}
			missing = append(missing, fmt.Sprintf("%s (%d candidates)", kind, len(set.URLs(kind))))
			continue
		}
		have[kind] = art
	}
	if len(missing) > 0 {
		return "", 0, model.NewError(model.KindTransfer, "fetch "+strings.Join(missing, ", "), ErrCandidatesExhausted)
	}
	return s.mux(ctx, index, total, entry, have[model.KindVideo], have[model.KindAudio])
}

// firstWorking tries candidates in order and stops at the first one that
// fetches without error and leaves its file on disk.
func (s *Service) firstWorking(ctx context.Context, urls []string, title string, kind model.StreamKind, log zerolog.Logger) (model.DownloadArtifact, error) {
	for n, u := range urls {
		art, err := s.fetcher.Fetch(ctx, u, title, kind)
		if err == nil && util.Exists(art.Path) {
			log.Debug().Str("kind", string(kind)).Int("candidate", n+1).Int("candidates", len(urls)).Msg("candidate succeeded")
			return art, nil
		}
		if model.IsInterrupt(err) || ctx.Err() != nil {
			if err == nil {
				err = ctx.Err()
			}
			return art, model.NewError(model.KindInterrupt, "fetch "+string(kind), err)
		}
		log.Debug().Err(err).Str("kind", string(kind)).Int("candidate", n+1).Int("candidates", len(urls)).Msg("candidate failed")
	}
	return model.DownloadArtifact{}, ErrCandidatesExhausted
}

func (s *Service) mux(ctx context.Context, index, total int, entry *model.ReportEntry, video, audio model.DownloadArtifact) (string, int64, error) {
	s.update(index, total, entry.Post, progress.StageMuxing, "Muxing")
	out := media.OutputPath(s.dir, entry.Post.Title)
	if err := s.muxer.Combine(ctx, video, audio, out); err != nil {
		return "", 0, err
	}
	return out, video.Bytes + audio.Bytes, nil
}

// learnTitle prefers the title reported by a lookup over the listed one.
// Posts without any title fall back to their id so file names are never
// empty.
func (s *Service) learnTitle(entry *model.ReportEntry, set model.StreamEndpointSet) {
	if set.Title != "" {
		entry.Post.Title = set.Title
	}
	if entry.Post.Title == "" {
		entry.Post.Title = entry.Post.ID
	}
}

func (s *Service) update(index, total int, post model.Post, stage progress.Stage, msg string) {
	s.reporter.Update(progress.Update{
		Index:   index,
		Total:   total,
		PostID:  post.ID,
		Title:   post.Title,
		Stage:   stage,
		Percent: -1,
		Message: msg,
	})
}
