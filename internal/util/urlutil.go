package util

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	bvidPattern   = regexp.MustCompile(`^BV[0-9A-Za-z]{10}$`)
	bvidInPath    = regexp.MustCompile(`/video/(BV[0-9A-Za-z]{10})`)
	epidInPath    = regexp.MustCompile(`/ep(\d+)`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// NormalizeBVID accepts either a bare bvid or a video page URL and returns
// the bvid.
func NormalizeBVID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if bvidPattern.MatchString(raw) {
		return raw, nil
	}
	if u := parseLoose(raw); u != nil {
		if m := bvidInPath.FindStringSubmatch(u.Path); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("invalid bvid %q", raw)
}

// NormalizeEPID accepts "12345", "ep12345" or an episode play URL.
func NormalizeEPID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	trimmed := strings.TrimPrefix(strings.ToLower(raw), "ep")
	if digitsPattern.MatchString(trimmed) {
		return trimmed, nil
	}
	if u := parseLoose(raw); u != nil {
		if m := epidInPath.FindStringSubmatch(u.Path); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("invalid ep_id %q", raw)
}

// NormalizeUID accepts a numeric uid or a space.bilibili.com URL.
func NormalizeUID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if digitsPattern.MatchString(raw) {
		return raw, nil
	}
	if u := parseLoose(raw); u != nil && strings.HasPrefix(strings.ToLower(u.Host), "space.") {
		seg := strings.Split(strings.Trim(u.Path, "/"), "/")[0]
		if digitsPattern.MatchString(seg) {
			return seg, nil
		}
	}
	return "", fmt.Errorf("invalid uid %q", raw)
}

func parseLoose(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u = u2
		}
	}
	if err != nil || u == nil || u.Host == "" {
		return nil
	}
	return u
}
