package bilibili

import (
	"context"
	"fmt"

	"bilicrawl/internal/crawl"
	"bilicrawl/internal/model"
	"bilicrawl/internal/quality"
)

// VideoResolver resolves a single video (bvid) by scraping its page. Streams
// are matched on the numeric rendition id.
type VideoResolver struct {
	get       Getter
	endpoints Endpoints
	videoID   int
	audioID   int
}

var _ crawl.Resolver = (*VideoResolver)(nil)

// NewVideoResolver binds quality labels to numeric rendition ids.
func NewVideoResolver(get Getter, endpoints Endpoints, q model.QualitySelector) *VideoResolver {
	v, a := quality.IDs(q.Video, q.Audio)
	return &VideoResolver{get: get, endpoints: endpoints, videoID: v, audioID: a}
}

func (r *VideoResolver) page(ctx context.Context, bvid string) (videoPage, error) {
	body, err := r.get.GetPage(ctx, fmt.Sprintf("%s/video/%s/", r.endpoints.Web, bvid))
	if err != nil {
		return videoPage{}, model.NewError(model.KindResolution, "fetch video page "+bvid, err)
	}
	vp, err := parseVideoPage(body)
	if err != nil {
		return vp, model.NewError(model.KindResolution, "parse video page "+bvid, err)
	}
	return vp, nil
}

func (r *VideoResolver) matchVideo(s dashStream) bool { return s.ID == r.videoID }
func (r *VideoResolver) matchAudio(s dashStream) bool { return s.ID == r.audioID }

// Resolve returns the first matching URL per kind.
func (r *VideoResolver) Resolve(ctx context.Context, bvid string) (model.StreamEndpointSet, error) {
	vp, err := r.page(ctx, bvid)
	if err != nil {
		return model.StreamEndpointSet{Title: vp.Title}, err
	}
	return model.StreamEndpointSet{
		Title: vp.Title,
		Video: firstMatch(vp.Dash.Video, r.matchVideo),
		Audio: firstMatch(vp.Dash.Audio, r.matchAudio),
	}, nil
}

// ResolveAll returns every mirror of every matching rendition.
func (r *VideoResolver) ResolveAll(ctx context.Context, bvid string) (model.StreamEndpointSet, error) {
	vp, err := r.page(ctx, bvid)
	if err != nil {
		return model.StreamEndpointSet{Title: vp.Title}, err
	}
	return model.StreamEndpointSet{
		Title: vp.Title,
		Video: allMatches(vp.Dash.Video, r.matchVideo),
		Audio: allMatches(vp.Dash.Audio, r.matchAudio),
	}, nil
}
