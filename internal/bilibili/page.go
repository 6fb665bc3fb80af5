package bilibili

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
)

const (
	playInfoDecl = "window.__playinfo__"
	titleSuffix  = "_哔哩哔哩_bilibili"
)

// videoPage is what the crawler needs from a rendered video page.
type videoPage struct {
	Title string
	Dash  dash
}

type playInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Dash dash `json:"dash"`
	} `json:"data"`
}

// parseVideoPage extracts the title and the DASH payload of a video page.
func parseVideoPage(page []byte) (videoPage, error) {
	var vp videoPage

	title, script := scanPage(page)
	if title == "" {
		return vp, ErrTitleNotFound
	}
	vp.Title = title

	if script == nil {
		return vp, ErrPlayInfoNotFound
	}
	var pi playInfo
	if err := json.NewDecoder(bytes.NewReader(script)).Decode(&pi); err != nil {
		return vp, err
	}
	if pi.Code != 0 {
		return vp, apiStatusError(pi.Code, pi.Message)
	}
	vp.Dash = pi.Data.Dash
	return vp, nil
}

// scanPage walks the document once, returning the page title and the
// player info object text (starting at its opening brace).
func scanPage(page []byte) (string, []byte) {
	var (
		title    string
		script   []byte
		inTitle  bool
		inScript bool
	)

	tokenizer := html.NewTokenizer(bytes.NewReader(page))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return title, script
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			inTitle = string(tn) == "title"
			inScript = string(tn) == "script"
		case html.EndTagToken:
			inTitle, inScript = false, false
		case html.TextToken:
			data := tokenizer.Text()
			switch {
			case inTitle && title == "":
				title = trimTitle(string(data))
			case inScript && script == nil:
				declStart := bytes.Index(data, []byte(playInfoDecl))
				if declStart < 0 {
					continue
				}
				objStart := bytes.IndexByte(data[declStart:], '{')
				if objStart < 0 {
					continue
				}
				script = append([]byte(nil), data[declStart+objStart:]...)
			}
		}
		if title != "" && script != nil {
			return title, script
		}
	}
}

// trimTitle drops the site suffix. Titles without it are cut at the
// first underscore.
func trimTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	if t, ok := strings.CutSuffix(raw, titleSuffix); ok {
		return strings.TrimSpace(t)
	}
	if i := strings.Index(raw, "_"); i >= 0 {
		return strings.TrimSpace(raw[:i])
	}
	return raw
}
