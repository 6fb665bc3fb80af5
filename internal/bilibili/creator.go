package bilibili

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"bilicrawl/internal/model"
)

// PageSize is the number of posts requested per listing page.
const PageSize = 50

type creatorPage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List struct {
			VList []struct {
				Title string `json:"title"`
				BVID  string `json:"bvid"`
			} `json:"vlist"`
		} `json:"list"`
	} `json:"data"`
}

// listCreator pages through a creator's uploads until an empty page.
// A failing page ends the listing: the posts collected so far are returned
// with a KindEnumeration error.
func listCreator(ctx context.Context, get Getter, endpoints Endpoints, uid string, log zerolog.Logger) ([]model.Post, error) {
	var posts []model.Post
	page := 1
	for {
		u := fmt.Sprintf("%s/x/space/wbi/arc/search?mid=%s&ps=%d&tid=0&pn=%d",
			endpoints.API, url.QueryEscape(uid), PageSize, page)

		var resp creatorPage
		err := get.GetJSON(ctx, u, &resp)
		if err == nil && resp.Code != 0 {
			err = apiStatusError(resp.Code, resp.Message)
		}
		if err != nil {
			e := model.NewError(model.KindEnumeration, fmt.Sprintf("list creator %s page %d", uid, page), err)
			if e.Kind == model.KindInterrupt {
				return posts, e
			}
			log.Error().Err(e).Str("uid", uid).Int("page", page).Int("collected", len(posts)).
				Msg("listing stopped")
			return posts, e
		}

		items := resp.Data.List.VList
		if len(items) == 0 {
			break
		}
		for _, it := range items {
			posts = append(posts, model.Post{Title: it.Title, ID: it.BVID})
		}
		log.Debug().Str("uid", uid).Int("page", page).Int("items", len(items)).Msg("listing page")
		page++
	}

	if page == 1 {
		log.Warn().Str("uid", uid).Msg("creator has no posts")
	}
	log.Info().Str("uid", uid).Int("posts", len(posts)).Msg("finished collecting creator posts")
	return posts, nil
}
