package bilibili

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"bilicrawl/internal/crawl"
	"bilicrawl/internal/model"
	"bilicrawl/internal/util"
)

const (
	// VideoListFile holds the enumerated posts of a creator.
	VideoListFile = "video_list.json"
	// EpisodeListFile holds the sliced episodes of a series.
	EpisodeListFile = "episode_list.json"
)

type sourceConfig struct {
	endpoints Endpoints
	log       zerolog.Logger
}

// SourceOption configures a content source.
type SourceOption func(*sourceConfig)

// WithEndpoints overrides the base URLs.
func WithEndpoints(e Endpoints) SourceOption {
	return func(c *sourceConfig) { c.endpoints = e }
}

// WithLogger sets the logger used for enumeration events.
func WithLogger(l zerolog.Logger) SourceOption {
	return func(c *sourceConfig) { c.log = l }
}

func newSourceConfig(opts []SourceOption) sourceConfig {
	c := sourceConfig{endpoints: DefaultEndpoints, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// CreatorSource crawls every upload of one creator.
type CreatorSource struct {
	get Getter
	uid string
	cfg sourceConfig
}

// NewCreatorSource returns a source for the creator uid.
func NewCreatorSource(get Getter, uid string, opts ...SourceOption) *CreatorSource {
	return &CreatorSource{get: get, uid: uid, cfg: newSourceConfig(opts)}
}

func (s *CreatorSource) Name() string     { return "creator " + s.uid }
func (s *CreatorSource) ListFile() string { return VideoListFile }

func (s *CreatorSource) Enumerate(ctx context.Context) ([]model.Post, error) {
	return listCreator(ctx, s.get, s.cfg.endpoints, s.uid, s.cfg.log)
}

func (s *CreatorSource) Resolver(q model.QualitySelector) crawl.Resolver {
	return NewVideoResolver(s.get, s.cfg.endpoints, q)
}

// PostSource crawls a single video. It needs no listing call.
type PostSource struct {
	get  Getter
	bvid string
	cfg  sourceConfig
}

// NewPostSource returns a source for one bvid.
func NewPostSource(get Getter, bvid string, opts ...SourceOption) *PostSource {
	return &PostSource{get: get, bvid: bvid, cfg: newSourceConfig(opts)}
}

func (s *PostSource) Name() string     { return "video " + s.bvid }
func (s *PostSource) ListFile() string { return "" }

func (s *PostSource) Enumerate(context.Context) ([]model.Post, error) {
	return []model.Post{{ID: s.bvid}}, nil
}

func (s *PostSource) Resolver(q model.QualitySelector) crawl.Resolver {
	return NewVideoResolver(s.get, s.cfg.endpoints, q)
}

// SeriesSource crawls num consecutive episodes of a season starting at an
// episode id.
type SeriesSource struct {
	get    Getter
	start  string
	num    int
	cfg    sourceConfig
	titles *titleCache
}

// NewSeriesSource returns a source for num episodes starting at epid.
func NewSeriesSource(get Getter, epid string, num int, opts ...SourceOption) *SeriesSource {
	return &SeriesSource{get: get, start: epid, num: num, cfg: newSourceConfig(opts), titles: newTitleCache()}
}

func (s *SeriesSource) Name() string     { return "series from ep" + s.start }
func (s *SeriesSource) ListFile() string { return EpisodeListFile }

func (s *SeriesSource) Enumerate(ctx context.Context) ([]model.Post, error) {
	all, err := fetchSeason(ctx, s.get, s.cfg.endpoints, s.start)
	if err != nil {
		e := model.NewError(model.KindEnumeration, "list season of ep"+s.start, err)
		if e.Kind == model.KindInterrupt {
			return nil, e
		}
		s.cfg.log.Error().Err(e).Str("epid", s.start).Msg("listing stopped")
		return nil, e
	}
	s.titles.put(all)
	posts, err := SliceEpisodes(all, s.start, s.num)
	if err != nil {
		return nil, err
	}
	s.cfg.log.Info().Str("epid", s.start).Int("season", len(all)).Int("episodes", len(posts)).
		Msg("finished collecting episodes")
	return posts, nil
}

func (s *SeriesSource) Resolver(q model.QualitySelector) crawl.Resolver {
	return newEpisodeResolver(s.get, s.cfg.endpoints, q, s.titles)
}

// ListSource replays a list saved by an earlier run. Numeric ids are
// episodes; anything else is a video.
type ListSource struct {
	get  Getter
	path string
	cfg  sourceConfig
}

// NewListSource returns a source reading posts from path.
func NewListSource(get Getter, path string, opts ...SourceOption) *ListSource {
	return &ListSource{get: get, path: path, cfg: newSourceConfig(opts)}
}

func (s *ListSource) Name() string     { return "list " + s.path }
func (s *ListSource) ListFile() string { return "" }

func (s *ListSource) Enumerate(context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := util.ReadJSONFile(s.path, &posts); err != nil {
		return nil, model.NewError(model.KindUsage, "read list "+s.path, err)
	}
	for i, p := range posts {
		if p.ID == "" {
			return nil, model.NewError(model.KindUsage, "read list "+s.path, fmt.Errorf("entry %d has no id", i))
		}
	}
	return posts, nil
}

func (s *ListSource) Resolver(q model.QualitySelector) crawl.Resolver {
	return &routingResolver{
		video:   NewVideoResolver(s.get, s.cfg.endpoints, q),
		episode: NewEpisodeResolver(s.get, s.cfg.endpoints, q),
	}
}

type routingResolver struct {
	video   crawl.Resolver
	episode crawl.Resolver
}

func (r *routingResolver) pick(id string) crawl.Resolver {
	if isEpisodeID(id) {
		return r.episode
	}
	return r.video
}

func (r *routingResolver) Resolve(ctx context.Context, id string) (model.StreamEndpointSet, error) {
	return r.pick(id).Resolve(ctx, id)
}

func (r *routingResolver) ResolveAll(ctx context.Context, id string) (model.StreamEndpointSet, error) {
	return r.pick(id).ResolveAll(ctx, id)
}

func isEpisodeID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
