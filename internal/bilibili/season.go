package bilibili

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"bilicrawl/internal/model"
)

type seasonEpisode struct {
	EpID      int64  `json:"ep_id"`
	ID        int64  `json:"id"`
	ShareCopy string `json:"share_copy"`
	LongTitle string `json:"long_title"`
	Title     string `json:"title"`
}

func (e seasonEpisode) post() model.Post {
	id := e.EpID
	if id == 0 {
		id = e.ID
	}
	title := e.ShareCopy
	if title == "" {
		title = e.LongTitle
	}
	if title == "" {
		title = e.Title
	}
	return model.Post{Title: title, ID: strconv.FormatInt(id, 10)}
}

type seasonResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Result  struct {
		Title    string          `json:"title"`
		Episodes []seasonEpisode `json:"episodes"`
	} `json:"result"`
}

// titleCache remembers episode titles learned from season listings so the
// resolver does not need a second season call per episode.
type titleCache struct {
	mu     sync.RWMutex
	titles map[string]string
}

func newTitleCache() *titleCache {
	return &titleCache{titles: map[string]string{}}
}

func (c *titleCache) put(posts []model.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range posts {
		c.titles[p.ID] = p.Title
	}
}

func (c *titleCache) get(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.titles[id]
	return t, ok
}

// fetchSeason returns the full ordered episode list of the season that
// contains epid.
func fetchSeason(ctx context.Context, get Getter, endpoints Endpoints, epid string) ([]model.Post, error) {
	u := fmt.Sprintf("%s/pgc/view/web/season?ep_id=%s", endpoints.API, url.QueryEscape(epid))
	var resp seasonResponse
	if err := get.GetJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, apiStatusError(resp.Code, resp.Message)
	}
	posts := make([]model.Post, 0, len(resp.Result.Episodes))
	for _, ep := range resp.Result.Episodes {
		posts = append(posts, ep.post())
	}
	return posts, nil
}

// SliceEpisodes returns num consecutive episodes starting at start.
// A start that is not in the list is a usage error.
func SliceEpisodes(all []model.Post, start string, num int) ([]model.Post, error) {
	for i, p := range all {
		if p.ID != start {
			continue
		}
		end := i + num
		if end > len(all) {
			end = len(all)
		}
		out := make([]model.Post, end-i)
		copy(out, all[i:end])
		return out, nil
	}
	return nil, model.NewError(model.KindUsage, "locate episode "+start, ErrStartNotFound)
}
