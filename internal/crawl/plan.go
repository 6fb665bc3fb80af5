package crawl

import (
	"context"

	"bilicrawl/internal/model"
	"bilicrawl/internal/util/media"
)

// PlannedPost is the primary lookup of one post, without any transfer.
type PlannedPost struct {
	Index  int // 1-based
	Post   model.Post
	Video  string
	Audio  string
	Output string
	Err    error
}

// Plan enumerates the source and runs the primary lookup for every post
// from begin on. Lookup failures are recorded per post; an interrupt stops
// the plan and returns what was gathered with the interrupt error.
func (s *Service) Plan(ctx context.Context) ([]PlannedPost, error) {
	posts, err := s.source.Enumerate(ctx)
	if err != nil && model.KindOf(err) != model.KindEnumeration {
		return nil, err
	}
	if s.begin >= len(posts) {
		return []PlannedPost{}, nil
	}

	r := s.source.Resolver(s.quality)
	out := make([]PlannedPost, 0, len(posts)-s.begin)
	for i := s.begin; i < len(posts); i++ {
		pp := PlannedPost{Index: i + 1, Post: posts[i]}
		set, err := r.Resolve(ctx, posts[i].ID)
		if set.Title != "" {
			pp.Post.Title = set.Title
		}
		if model.IsInterrupt(err) {
			return out, err
		}
		switch {
		case err != nil:
			pp.Err = err
		case len(set.Video) == 0 || len(set.Audio) == 0:
			pp.Err = model.NewError(model.KindResolution, "resolve "+posts[i].ID, ErrNoMatchingStream)
		default:
			pp.Video = set.Video[0]
			pp.Audio = set.Audio[0]
		}
		title := pp.Post.Title
		if title == "" {
			title = pp.Post.ID
		}
		pp.Output = media.OutputPath(s.dir, title)
		out = append(out, pp)
	}
	return out, nil
}
