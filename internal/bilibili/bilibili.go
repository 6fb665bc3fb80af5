// Package bilibili implements the content sources of the crawler against
// the bilibili web page and JSON APIs: creator listings, single video
// pages and bangumi seasons.
package bilibili

import (
	"context"
	"errors"
	"fmt"
)

// Endpoints are the base URLs requests are built from.
type Endpoints struct {
	Web string // https://www.bilibili.com
	API string // https://api.bilibili.com
}

// DefaultEndpoints point at the production site.
var DefaultEndpoints = Endpoints{
	Web: "https://www.bilibili.com",
	API: "https://api.bilibili.com",
}

// Getter is the subset of netclient.Client used here.
type Getter interface {
	GetJSON(ctx context.Context, url string, v any) error
	GetPage(ctx context.Context, url string) ([]byte, error)
}

var (
	// ErrPlayInfoNotFound means the video page carried no player info script.
	ErrPlayInfoNotFound = errors.New("player info not found in page")
	// ErrTitleNotFound means the page or payload had no usable title.
	ErrTitleNotFound = errors.New("title not found")
	// ErrStartNotFound means the requested episode is not in its season.
	ErrStartNotFound = errors.New("starting episode not found in season")
	// ErrAPIStatus wraps a non-zero "code" in an API payload.
	ErrAPIStatus = errors.New("api returned non-zero code")
)

func apiStatusError(code int, message string) error {
	return fmt.Errorf("%w: code=%d message=%q", ErrAPIStatus, code, message)
}

// dashStream is one rendition entry of a DASH payload. The platform
// reports each URL under two spellings; either may be missing.
type dashStream struct {
	ID           int      `json:"id"`
	BaseURL      string   `json:"baseUrl"`
	BaseURLAlt   string   `json:"base_url"`
	BackupURL    []string `json:"backupUrl"`
	BackupURLAlt []string `json:"backup_url"`
}

type dash struct {
	Video []dashStream `json:"video"`
	Audio []dashStream `json:"audio"`
}

// primary returns the main URL of a rendition.
func (s dashStream) primary() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return s.BaseURLAlt
}

// mirrors returns every URL of a rendition in reported order, skipping
// empties and duplicates.
func (s dashStream) mirrors() []string {
	var out []string
	seen := map[string]bool{}
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}
	add(s.BaseURL)
	add(s.BaseURLAlt)
	for _, u := range s.BackupURL {
		add(u)
	}
	for _, u := range s.BackupURLAlt {
		add(u)
	}
	return out
}

// firstMatch returns the primary URL of the first stream accepted by match.
func firstMatch(streams []dashStream, match func(dashStream) bool) []string {
	for _, s := range streams {
		if match(s) {
			if u := s.primary(); u != "" {
				return []string{u}
			}
		}
	}
	return nil
}

// allMatches collects the mirrors of every stream accepted by match.
func allMatches(streams []dashStream, match func(dashStream) bool) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range streams {
		if !match(s) {
			continue
		}
		for _, u := range s.mirrors() {
			if !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	return out
}
