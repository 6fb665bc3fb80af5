package bilibili

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"bilicrawl/internal/crawl"
	"bilicrawl/internal/model"
	"bilicrawl/internal/quality"
)

type playURLResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Result  struct {
		Dash dash `json:"dash"`
	} `json:"result"`
}

// EpisodeResolver resolves bangumi episodes through the play-url API.
// Streams are matched on the rendition code carried in the file name,
// e.g. ".../123-1-30080.m4s".
type EpisodeResolver struct {
	get       Getter
	endpoints Endpoints
	videoCode string
	audioCode string
	titles    *titleCache
}

var _ crawl.Resolver = (*EpisodeResolver)(nil)

// NewEpisodeResolver binds quality labels to rendition codes.
func NewEpisodeResolver(get Getter, endpoints Endpoints, q model.QualitySelector) *EpisodeResolver {
	return newEpisodeResolver(get, endpoints, q, newTitleCache())
}

func newEpisodeResolver(get Getter, endpoints Endpoints, q model.QualitySelector, titles *titleCache) *EpisodeResolver {
	v, a := quality.Codes(q.Video, q.Audio)
	return &EpisodeResolver{get: get, endpoints: endpoints, videoCode: v, audioCode: a, titles: titles}
}

// codeMatches reports whether the file name of rawURL ends in "-<code>".
func codeMatches(rawURL, code string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	base := path.Base(u.Path)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.HasSuffix(base, "-"+code)
}

func matchCode(code string) func(dashStream) bool {
	return func(s dashStream) bool {
		return codeMatches(s.primary(), code)
	}
}

func (r *EpisodeResolver) title(ctx context.Context, epid string) (string, error) {
	if t, ok := r.titles.get(epid); ok && t != "" {
		return t, nil
	}
	posts, err := fetchSeason(ctx, r.get, r.endpoints, epid)
	if err != nil {
		return "", err
	}
	r.titles.put(posts)
	if t, ok := r.titles.get(epid); ok && t != "" {
		return t, nil
	}
	return "", ErrTitleNotFound
}

func (r *EpisodeResolver) dash(ctx context.Context, epid string) (string, dash, error) {
	title, err := r.title(ctx, epid)
	if err != nil {
		return "", dash{}, model.NewError(model.KindResolution, "episode title "+epid, err)
	}
	u := fmt.Sprintf("%s/pgc/player/web/playurl?ep_id=%s&fnval=16&fourk=1", r.endpoints.API, url.QueryEscape(epid))
	var resp playURLResponse
	if err := r.get.GetJSON(ctx, u, &resp); err != nil {
		return title, dash{}, model.NewError(model.KindResolution, "play url "+epid, err)
	}
	if resp.Code != 0 {
		return title, dash{}, model.NewError(model.KindResolution, "play url "+epid, apiStatusError(resp.Code, resp.Message))
	}
	return title, resp.Result.Dash, nil
}

// Resolve returns the first matching URL per kind.
func (r *EpisodeResolver) Resolve(ctx context.Context, epid string) (model.StreamEndpointSet, error) {
	title, d, err := r.dash(ctx, epid)
	if err != nil {
		return model.StreamEndpointSet{Title: title}, err
	}
	return model.StreamEndpointSet{
		Title: title,
		Video: firstMatch(d.Video, matchCode(r.videoCode)),
		Audio: firstMatch(d.Audio, matchCode(r.audioCode)),
	}, nil
}

// ResolveAll returns every mirror of every matching rendition.
func (r *EpisodeResolver) ResolveAll(ctx context.Context, epid string) (model.StreamEndpointSet, error) {
	title, d, err := r.dash(ctx, epid)
	if err != nil {
		return model.StreamEndpointSet{Title: title}, err
	}
	return model.StreamEndpointSet{
		Title: title,
		Video: allMatches(d.Video, matchCode(r.videoCode)),
		Audio: allMatches(d.Audio, matchCode(r.audioCode)),
	}, nil
}
